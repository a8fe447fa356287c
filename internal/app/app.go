package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/pstuifzand/tuo-notes/internal/bridge"
	"github.com/pstuifzand/tuo-notes/internal/config"
	"github.com/pstuifzand/tuo-notes/internal/history"
	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/outline"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
	"github.com/pstuifzand/tuo-notes/internal/search"
	"github.com/pstuifzand/tuo-notes/internal/socket"
	"github.com/pstuifzand/tuo-notes/internal/storage"
	"github.com/pstuifzand/tuo-notes/internal/ui"
)

const (
	modeEdit = "EDIT"
	modeView = "VIEW"
)

// Options configures an App
type Options struct {
	Config  *config.Config
	Logger  *zap.Logger
	Files   storage.Store
	Backups *storage.BackupManager // nil disables backups
	History *history.Manager       // nil keeps command history in memory
	Socket  *socket.Server         // nil disables external commands
	FileID  string                 // empty opens the active outline
	Debug   bool
}

// App is the main application controller
type App struct {
	screen    *ui.Screen
	cfg       *config.Config
	logger    *zap.Logger
	files     storage.Store
	backups   *storage.BackupManager
	socket    *socket.Server
	sessionID string

	fileID string
	title  string

	state     *model.State
	store     *outline.Store
	surface   *richtext.Surface
	bridge    *bridge.Bridge
	scheduler *EventScheduler

	tree    *ui.TreeView
	command *ui.CommandLine
	status  *ui.StatusLine

	saved        model.Tree
	savedTitle   string
	quit         bool
	debug        bool
	zoomed       bool
	queries      *search.QueryCache
	matches      []string
	matchIndex   int
	lastAutosave time.Time
}

// New creates an App drawing on screen and loads the outline named by
// opts.FileID, or the active one
func New(screen *ui.Screen, opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("missing config")
	}
	if opts.Files == nil {
		return nil, fmt.Errorf("missing outline store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{
		screen:    screen,
		cfg:       opts.Config,
		logger:    logger,
		files:     opts.Files,
		backups:   opts.Backups,
		socket:    opts.Socket,
		sessionID: storage.NewSessionID(),
		debug:     opts.Debug,
		tree:      ui.NewTreeView(screen),
		status:    ui.NewStatusLine(100),
		scheduler: NewEventScheduler(screen.PostEvent),
		surface:   richtext.NewSurface("outline"),
		queries:   search.NewQueryCache(search.DefaultCacheTTL),
	}

	inputHistory := ui.NewInputHistory(history.DefaultMaxEntries)
	if opts.History != nil {
		h, err := ui.LoadInputHistory(history.DefaultMaxEntries, opts.History, "command.toml")
		if err != nil {
			logger.Warn("load command history", zap.Error(err))
		}
		inputHistory = h
	}
	a.command = ui.NewCommandLine(inputHistory)

	a.state = model.NewState(nil)
	a.store = outline.New(a.state, history.NewLog(a.state, history.WithLogLogger(logger)),
		outline.WithLogger(logger),
		outline.WithDebug(opts.Debug),
	)
	a.bridge = bridge.New(a.store, a.surface, a.scheduler,
		bridge.WithLogger(logger),
		bridge.WithEditorOptions(richtext.WithUndoGroupDelay(a.cfg.UndoGroupDelay())),
		bridge.WithFullScreenHandler(a.toggleZoom),
	)

	ctx := context.Background()
	id := opts.FileID
	if id == "" {
		id, _ = a.files.Active(ctx)
	}
	a.open(ctx, id)
	return a, nil
}

// open loads an outline into the editor. A missing outline starts a new
// one that is saved under id.
func (a *App) open(ctx context.Context, id string) {
	doc, ok := a.files.Load(ctx, id)
	if !ok {
		if id != "" {
			a.logger.Info("outline not found, starting new", zap.String("id", id))
		}
		doc = model.NewDocument("")
	}
	a.fileID = id
	a.title = doc.Title
	a.store.Reset(doc)
	a.markSaved()
	a.clearMatches()
	a.bridge.Refresh()
	a.logger.Info("outline opened", zap.String("id", id), zap.Int("nodes", a.store.Tree().Count()))
}

// Run starts the main event loop. It returns when the user quits or ctx is
// cancelled; a cancelled session saves unsaved changes first.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	a.screen.EnableMouse()
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	var autosave <-chan time.Time
	if interval := a.cfg.AutosaveInterval(); interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		autosave = ticker.C
	}

	var messages <-chan socket.Message
	if a.socket != nil {
		a.socket.Start()
		messages = a.socket.Messages()
	}

	a.scheduler.Drain()
	a.render()
	for !a.quit {
		select {
		case <-ctx.Done():
			if a.Dirty() {
				if err := a.Save(); err != nil {
					a.logger.Error("save on shutdown", zap.Error(err))
				}
			}
			return ctx.Err()
		case ev := <-events:
			a.handleEvent(ev)
		case <-autosave:
			a.autosave()
		case msg := <-messages:
			a.handleSocketMessage(msg)
		}
		a.scheduler.Drain()
		a.render()
	}
	return nil
}

// Close stops the socket server, destroys the editor and closes the screen
func (a *App) Close() error {
	if a.socket != nil {
		a.socket.Stop()
	}
	a.bridge.Close()
	if a.screen != nil {
		return a.screen.Close()
	}
	return nil
}

// render renders the current state to the screen
func (a *App) render() {
	width, height := a.screen.Size()
	a.screen.Clear()

	area := ui.Rect{Y: 1, W: width, H: height - 2}
	if a.zoomed {
		area = ui.Rect{W: width, H: height}
	} else {
		ui.RenderHeader(a.screen, 0, a.displayTitle())
	}

	var live *ui.Live
	if ed := a.bridge.Editor(); ed != nil {
		live = &ui.Live{NodeID: a.bridge.MountedID(), State: ed.State()}
	}
	a.tree.Render(a.store.Tree(), a.store.FocusID(), live, area)

	switch {
	case a.command.IsActive():
		a.command.Render(a.screen, height-1)
	case !a.zoomed:
		a.status.Render(a.screen, height-1, a.mode(), a.Dirty())
	}
	a.screen.Show()
}

// mode is EDIT while an editor is mounted and VIEW without focus
func (a *App) mode() string {
	if a.surface.Busy() {
		return modeEdit
	}
	return modeView
}

// handleEvent processes raw input events
func (a *App) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventInterrupt:
		// deferred work runs after every event
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	if a.debug {
		a.logger.Debug("key", zap.String("name", richtext.KeyName(ev)))
	}

	if a.command.IsActive() {
		if cmd, done := a.command.HandleKey(ev); done && cmd != "" {
			a.execute(cmd)
		}
		return
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		a.command.Start("")
		return
	case tcell.KeyCtrlS:
		a.execute("w")
		return
	case tcell.KeyCtrlQ:
		a.execute("q")
		return
	case tcell.KeyCtrlF:
		a.command.Start("find ")
		return
	case tcell.KeyCtrlN:
		a.nextMatch(1)
		return
	case tcell.KeyCtrlP:
		a.nextMatch(-1)
		return
	}
	a.bridge.HandleKey(ev)
}

// handleMouse focuses the clicked node with the cursor under the pointer
func (a *App) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 || a.command.IsActive() {
		return
	}
	x, y := ev.Position()
	if id, offset, ok := a.tree.HitTest(x, y); ok {
		a.bridge.FocusAt(id, offset)
	}
}

// Save stores the outline, makes it the active one and writes a backup
func (a *App) Save() error {
	ctx := context.Background()
	doc := model.DocumentFromState(a.state, a.title)
	meta, err := a.files.Save(ctx, a.fileID, doc)
	if err != nil {
		return fmt.Errorf("save outline: %w", err)
	}
	a.fileID = meta.ID
	if err := a.files.SetActive(ctx, meta.ID); err != nil {
		a.logger.Warn("set active outline", zap.String("id", meta.ID), zap.Error(err))
	}
	a.markSaved()
	a.backup(doc)
	a.logger.Info("outline saved", zap.String("id", meta.ID), zap.String("name", meta.Name))
	return nil
}

// markSaved records the current tree and title as the saved state
func (a *App) markSaved() {
	a.saved = a.store.Tree()
	a.savedTitle = a.title
	a.lastAutosave = time.Now()
}

// Dirty reports whether the outline differs from the saved one. Cursor
// movement alone does not make it dirty.
func (a *App) Dirty() bool {
	return a.title != a.savedTitle || !sameTree(a.saved, a.store.Tree())
}

// SetStatus sets the status message
func (a *App) SetStatus(msg string) {
	a.status.SetMessage(msg)
}

// Quit signals the app to quit
func (a *App) Quit() {
	a.quit = true
}

func (a *App) displayTitle() string {
	if a.title == "" {
		return model.DefaultTitle
	}
	return a.title
}

func (a *App) toggleZoom() {
	a.zoomed = !a.zoomed
}

// sameTree compares content, structure and expansion of two trees. Shared
// subtrees are skipped.
func sameTree(a, b model.Tree) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x == y {
			continue
		}
		if x == nil || y == nil || x.ID != y.ID || x.IsExpanded() != y.IsExpanded() ||
			!richtext.Equal(x.Content, y.Content) || !sameTree(x.Children, y.Children) {
			return false
		}
	}
	return true
}
