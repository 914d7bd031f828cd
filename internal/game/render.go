package game

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-runner/internal/anim"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/race"
	"github.com/vovakirdan/tui-runner/internal/track"
)

// Visual characters for rendering
const (
	GroundChar   = '═'
	HillChar     = '^'
	HurdleChar   = '▓'
	WaterChar    = '≈'
	LaneChar     = '·'
	FinishChar   = '┃'
	RivalMark    = '▪'
	PlayerMark   = '█'
	BarFillChar  = '█'
	BarEmptyChar = '░'
)

// viewSpan is how many meters of track are visible around the runner.
const viewSpan = 40.0

// runnerX is the fixed screen column the runner sprite occupies.
const runnerX = 10

// Render draws the current race state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.initErr != nil {
		dst.DrawTextCentered(dst.Height()/2, fmt.Sprintf("cannot start race: %v", g.initErr))
		return
	}

	snap := g.ctrl.Snapshot()
	groundY := dst.Height() - 5

	g.drawCourse(dst, snap, groundY)
	g.drawRunner(dst, groundY)
	g.drawHUD(dst, snap)
	g.drawBars(dst, snap)

	switch {
	case snap.Phase == race.PhaseCountdown.String():
		dst.DrawTextCentered(dst.Height()/2-3, fmt.Sprintf("%d", snap.Countdown))
	case g.paused:
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case g.gameOver:
		g.drawResult(dst)
	}
}

// drawCourse renders the ground, hills on country terrain, and the
// obstacles inside the visible window.
func (g *Game) drawCourse(dst *core.Screen, snap race.Snapshot, groundY int) {
	dst.DrawHLine(0, groundY, dst.Width(), GroundChar)

	if g.course == nil {
		return
	}

	// Background hills follow the elevation profile.
	for x := 0; x < dst.Width(); x++ {
		pos := snap.Distance + (float64(x-runnerX)/float64(dst.Width()))*viewSpan
		if pos < 0 {
			continue
		}
		if g.course.ElevationAt(pos) > 0.6 {
			dst.SetColored(x, groundY-4, HillChar, core.ColorGreen)
		}
	}

	for _, ob := range g.course.Obstacles {
		dx := ob.Position - snap.Distance
		if dx < -viewSpan/2 || dx > viewSpan {
			continue
		}
		x := runnerX + int(dx/viewSpan*float64(dst.Width()))
		char := HurdleChar
		color := core.ColorYellow
		height := 2
		if ob.Kind == track.WaterJump {
			char = WaterChar
			color = core.ColorCyan
			height = 1
		}
		if ob.Kind == track.HighHurdle {
			height = 3
		}
		for dy := 1; dy <= height; dy++ {
			dst.SetColored(x, groundY-dy, char, color)
		}
	}
}

// drawRunner renders the player sprite from the animation frame.
func (g *Game) drawRunner(dst *core.Screen, groundY int) {
	frame := g.machine.Frame()
	baseY := groundY - 3 - int(-g.jumpY/pxPerCell)

	head, torso, legs := runnerPose(g.machine.State(), frame)
	dst.DrawTextColored(runnerX, baseY, head, core.ColorBrightWhite)
	dst.DrawTextColored(runnerX, baseY+1, torso, core.ColorBrightWhite)
	dst.DrawTextColored(runnerX, baseY+2, legs, core.ColorBrightWhite)
}

// runnerPose maps an animation frame to a three-line ASCII figure. The
// stride alternates with the frame column so faster paces look faster.
func runnerPose(state anim.State, frame anim.Frame) (head, torso, legs string) {
	switch state {
	case anim.StateRunning:
		if frame.Column%2 == 0 {
			return " O ", "/|\\", "/ \\"
		}
		return " O ", "\\|/", " /\\"
	case anim.StateJumping:
		if frame.Column < anim.FramesLongJump/2 {
			return " O/", "/| ", " \\ "
		}
		return " O ", "/|\\", "/  "
	case anim.StateFalling:
		return "   ", " o_", "/\\ "
	case anim.StateFlex:
		if frame.Column == anim.MixedFlexStart {
			return " O ", "\\|/", "| |"
		}
		return "\\O/", " | ", "| |"
	case anim.StateHeadScratch:
		return " O?", "/| ", "| |"
	case anim.StateCrying:
		return " o ", "/|\\", "_|_"
	default:
		return " O ", " | ", "| |"
	}
}

// drawHUD renders the title line, clock, rank, and the progress lane.
func (g *Game) drawHUD(dst *core.Screen, snap race.Snapshot) {
	dst.DrawText(2, 0, fmt.Sprintf(" %s | %s ", g.title, g.raceTitle))

	clock := fmt.Sprintf(" %s ", race.FormatTime(snap.Time))
	dst.DrawTextColored(dst.Width()-len(clock)-2, 0, clock, core.ColorBrightYellow)

	if g.targetTime > 0 {
		target := fmt.Sprintf(" target %s ", race.FormatTime(g.targetTime))
		dst.DrawText(dst.Width()-len(target)-2, 1, target)
	}
	dst.DrawTextColored(2, 1, fmt.Sprintf(" %s place ", humanize.Ordinal(snap.Position)), core.ColorBrightCyan)

	// Progress lane: the whole field mapped onto one line. Marks are
	// clamped so a full-progress runner sits on the lane's last cell.
	laneY := 3
	dst.DrawHLine(1, laneY, dst.Width()-2, LaneChar)
	for _, c := range g.ctrl.Field().Competitors() {
		x := core.Clamp(1+int(c.Progress*float64(dst.Width()-3)), 1, dst.Width()-2)
		dst.SetColored(x, laneY, RivalMark, core.ColorGray)
	}
	px := core.Clamp(1+int(snap.Progress*float64(dst.Width()-3)), 1, dst.Width()-2)
	dst.SetColored(px, laneY, PlayerMark, core.ColorBrightGreen)
}

// drawBars renders the stamina and boost meters on the bottom rows.
func (g *Game) drawBars(dst *core.Screen, snap race.Snapshot) {
	y := dst.Height() - 2
	drawMeter(dst, 2, y, "STAMINA", snap.Stamina/race.StaminaMax, core.ColorBrightGreen)
	drawMeter(dst, dst.Width()/2+2, y, "BOOST  ", snap.Boost/5, core.ColorBrightRed)
}

func drawMeter(dst *core.Screen, x, y int, label string, fill float64, color core.Color) {
	fill = core.ClampF(fill, 0, 1)
	dst.DrawText(x, y, label+" ")
	width := dst.Width()/2 - len(label) - 8
	if width < 4 {
		width = 4
	}
	filled := core.Min(int(fill*float64(width)), width)
	for i := 0; i < width; i++ {
		if i < filled {
			dst.SetColored(x+len(label)+1+i, y, BarFillChar, color)
		} else {
			dst.Set(x+len(label)+1+i, y, BarEmptyChar)
		}
	}
}

// drawResult renders the race outcome box.
func (g *Game) drawResult(dst *core.Screen) {
	switch {
	case g.outcome.Finished:
		sub := fmt.Sprintf("%s  |  %s  |  Score %d",
			race.FormatTime(g.outcome.Time), humanize.Ordinal(g.outcome.Position), g.outcome.Score)
		if g.newRecord {
			sub += "  |  NEW RECORD!"
		}
		g.drawCenteredMessage(dst, "FINISH", sub+"  |  Press R to race again")
	case g.ctrl.Phase() == race.PhaseAbandoned:
		g.drawCenteredMessage(dst, "ABANDONED", "Press R to race again")
	default:
		g.drawCenteredMessage(dst, "DID NOT FINISH", "Time limit reached  |  Press R to race again")
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	titleX := boxX + (boxW-len(title))/2
	dst.DrawText(titleX, boxY+1, title)

	subtitleX := boxX + (boxW-len(subtitle))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}
