// SSH server support via Wish: serve the runner to remote terminals.
package tui

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-runner/internal/career"
	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/game"
	"github.com/vovakirdan/tui-runner/internal/registry"
	"github.com/vovakirdan/tui-runner/internal/spectate"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.runner/host_key.
	HostKeyPath string

	// DBPath is the path to the career database.
	DBPath string

	// Difficulty seeds the stats of a fresh server career. An existing
	// save keeps its own stats.
	Difficulty config.DifficultyPreset

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.runner/runner.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server for the runner.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	hub    *spectate.Hub
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
// The hub may be nil; then races are not broadcast to spectators.
func NewSSHServer(cfg SSHServerConfig, hub *spectate.Hub) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "runner-ssh",
	})

	// Open storage. The host career is shared across sessions; the game
	// is single-player, the server just makes it reachable remotely.
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open career database", "error", err)
		// Continue without storage
	}
	game.SetDifficultyPreset(string(cfg.Difficulty))
	if store != nil {
		attachCareer(store, cfg.Difficulty, logger)
		game.SetArchive(store)
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		hub:    hub,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".runner", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close() //nolint:errcheck
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// attachCareer loads the persisted career and wires it into the game layer.
// A corrupt save is logged and replaced by a fresh career whose stats come
// from the difficulty preset.
func attachCareer(store *storage.Store, preset config.DifficultyPreset, logger *log.Logger) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	stats, found, err := store.LoadCareer()
	var ledger *career.Ledger
	switch {
	case err != nil:
		logger.Warn("career save unreadable, starting fresh", "error", err)
		ledger = career.NewLedgerWithStats(config.StartingStats(preset), rng)
	case found:
		ledger = career.NewLedgerFromStats(stats, rng)
	default:
		ledger = career.NewLedgerWithStats(config.StartingStats(preset), rng)
	}

	ledger.Attach(store)
	game.SetCareer(ledger)
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 60,
		Seed:     time.Now().UnixNano(),
	}

	model := NewSessionModel(s.store, s.hub, cfg)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close() //nolint:errcheck
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages the full session flow: menu -> race -> menu,
// with the records browser reachable from the menu. This is the
// top-level model used for SSH sessions.
type SessionModel struct {
	store     *storage.Store
	hub       *spectate.Hub
	config    core.RuntimeConfig
	menu      MenuModel
	raceModel *RaceModel
	records   *RecordsModel
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, hub *spectate.Hub, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		store:  store,
		hub:    hub,
		config: cfg,
		menu:   NewMenuModel(cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch {
	case m.raceModel != nil:
		return m.updateRace(msg)
	case m.records != nil:
		return m.updateRecords(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsRecords() {
		stats, hasCareer := careerSnapshot(m.store)
		records := NewRecordsModel(m.store, stats, hasCareer, m.config.ScreenW, m.config.ScreenH)
		m.records = &records
		m.menu = NewMenuModel(m.config)
		return m, m.records.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		mode, err := registry.Create(selected.ModeID)
		if err != nil {
			// Shouldn't happen since the menu only lists registered modes
			return m, nil
		}

		m.config = m.menu.Config()
		m.config.Seed = time.Now().UnixNano()

		raceModel := NewRaceModel(mode, m.hub, m.config)
		m.raceModel = &raceModel
		m.menu = NewMenuModel(m.config)

		return m, m.raceModel.Init()
	}

	return m, cmd
}

// updateRace handles updates when racing.
func (m SessionModel) updateRace(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.raceModel.Update(msg)
	if raceModel, ok := newModel.(RaceModel); ok {
		m.raceModel = &raceModel
	}

	if m.raceModel.BackToMenu() {
		m.raceModel = nil
		m.menu = NewMenuModel(m.config)
		return m, m.menu.Init()
	}

	if m.raceModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateRecords handles updates when browsing records. Quit commands from
// the records model are swallowed so backing out returns to the menu
// instead of ending the session.
func (m SessionModel) updateRecords(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.records.Update(msg)
	if records, ok := newModel.(RecordsModel); ok {
		m.records = &records
	}

	if m.records.IsGoingBack() {
		m.records = nil
		m.menu = NewMenuModel(m.config)
		return m, m.menu.Init()
	}

	if m.records.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.raceModel != nil:
		return m.raceModel.View()
	case m.records != nil:
		return m.records.View()
	default:
		return m.menu.View()
	}
}

// careerSnapshot reads the persisted career for display purposes.
func careerSnapshot(store *storage.Store) (career.PlayerStats, bool) {
	if store == nil {
		return career.PlayerStats{}, false
	}
	stats, found, err := store.LoadCareer()
	if err != nil || !found {
		return career.PlayerStats{}, false
	}
	return stats, true
}

// RaceModel wraps a race mode with back-to-menu capability for sessions.
type RaceModel struct {
	mode       registry.Mode
	screen     *core.Screen
	hub        *spectate.Hub
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	backToMenu bool
}

// NewRaceModel creates a race model for one session.
func NewRaceModel(mode registry.Mode, hub *spectate.Hub, cfg core.RuntimeConfig) RaceModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return RaceModel{
		mode:       mode,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		hub:        hub,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}
}

// Init initializes the race.
func (m RaceModel) Init() tea.Cmd {
	m.mode.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m RaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input. Esc over a finished or paused race
// returns to the menu; mid-race it abandons first.
func (m RaceModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m RaceModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.mode.Reset(m.config)
		m.gameState = m.mode.State()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.mode.Step(m.inputFrame)
	m.gameState = result.State

	if m.hub != nil {
		if lr, ok := m.mode.(liveRace); ok {
			m.hub.BroadcastSnapshot(lr.RaceSnapshot())
		}
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// View renders the race.
func (m RaceModel) View() string {
	if m.quitting {
		return ""
	}

	m.mode.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m RaceModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m RaceModel) BackToMenu() bool {
	return m.backToMenu
}
