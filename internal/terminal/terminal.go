package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/eventlog"
	"github.com/osse101/CozyCasino_Go/internal/quest"
	"github.com/osse101/CozyCasino_Go/internal/session"
)

// Session is the part of a session the terminal drives
type Session interface {
	Start(ctx context.Context) (session.Status, error)
	Onboard(ctx context.Context, userID, displayName string) (*domain.Profile, error)
	PlaySlot(ctx context.Context, theme string) (*domain.SlotResult, error)
	PlayMini(ctx context.Context, game string) (*domain.MiniResult, error)
	RefreshProfile(ctx context.Context) (domain.Profile, error)
	SyncMeta(ctx context.Context) (quest.Snapshot, error)
	Logout(ctx context.Context) error
	SetBet(bet int) error
	Snapshot() session.View
}

// History reads the play journal
type History interface {
	Recent(ctx context.Context, userID string, limit int) ([]eventlog.Entry, error)
}

// Command is a REPL command
type Command struct {
	Name        string
	Usage       string
	Description string
	Run         func(ctx context.Context, args []string) error
}

// errQuit stops the loop
var errQuit = errors.New("quit")

// REPL is a line-oriented terminal client
type REPL struct {
	sess     Session
	out      io.Writer
	in       *bufio.Scanner
	commands map[string]Command
	printer  *message.Printer
	title    cases.Caser
	suggest  func() string
	history  History
}

// New creates a REPL reading commands from in and writing to out.
// suggest pre-fills the user ID of onboard when none is given.
func New(sess Session, in io.Reader, out io.Writer, suggest func() string) *REPL {
	r := &REPL{
		sess:    sess,
		out:     out,
		in:      bufio.NewScanner(in),
		printer: message.NewPrinter(language.English),
		title:   cases.Title(language.English),
		suggest: suggest,
	}
	r.commands = make(map[string]Command)
	for _, c := range r.builtins() {
		r.commands[c.Name] = c
	}
	return r
}

// WithHistory enables the history command
func (r *REPL) WithHistory(h History) *REPL {
	r.history = h
	r.commands[CmdHistory] = Command{
		Name: CmdHistory, Usage: CmdHistory + " [n]", Description: "Show your latest plays", Run: r.cmdHistory,
	}
	return r
}

// Run starts the session and processes commands until quit or end of input
func (r *REPL) Run(ctx context.Context) error {
	r.println(WelcomeBanner)

	status, err := r.sess.Start(ctx)
	if status == session.StatusReady {
		r.renderHUD(r.sess.Snapshot())
	} else {
		if notice := r.sess.Snapshot().Notice; notice != "" {
			r.println(notice)
		} else if err != nil {
			r.println(domain.MsgProfileLoadFailed)
		}
		r.println(MsgOnboardHint)
	}

	for {
		fmt.Fprint(r.out, Prompt)
		if !r.in.Scan() {
			r.println("")
			r.println(MsgGoodbye)
			return r.in.Err()
		}
		if err := r.Exec(ctx, r.in.Text()); errors.Is(err, errQuit) {
			r.println(MsgGoodbye)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Exec runs a single command line. Command failures are printed, not returned.
func (r *REPL) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, ok := r.commands[strings.ToLower(fields[0])]
	if !ok {
		r.printf(MsgUnknownCmd+"\n", fields[0])
		return nil
	}
	err := cmd.Run(ctx, fields[1:])
	if err != nil && !errors.Is(err, errQuit) {
		r.println(err.Error())
		return nil
	}
	return err
}

func (r *REPL) builtins() []Command {
	return []Command{
		{Name: CmdHUD, Usage: CmdHUD, Description: "Show your balances", Run: r.cmdHUD},
		{Name: CmdBet, Usage: CmdBet + " <10|20|50|100>", Description: "Choose the slot bet", Run: r.cmdBet},
		{Name: CmdSpin, Usage: CmdSpin + " [theme]", Description: "Spin a slot machine", Run: r.cmdSpin},
		{Name: CmdPop, Usage: CmdPop + " [game]", Description: "Play a mini game", Run: r.cmdPop},
		{Name: CmdQuests, Usage: CmdQuests, Description: "List your quests", Run: r.cmdQuests},
		{Name: CmdEvents, Usage: CmdEvents, Description: "List active events", Run: r.cmdEvents},
		{Name: CmdGames, Usage: CmdGames, Description: "List slot themes and mini games", Run: r.cmdGames},
		{Name: CmdOnboard, Usage: CmdOnboard + " <name> [user_id]", Description: "Create your profile", Run: r.cmdOnboard},
		{Name: CmdLogout, Usage: CmdLogout, Description: "Forget the saved profile", Run: r.cmdLogout},
		{Name: CmdRefresh, Usage: CmdRefresh, Description: "Reload profile, quests and events", Run: r.cmdRefresh},
		{Name: CmdHelp, Usage: CmdHelp, Description: "Show this help", Run: r.cmdHelp},
		{Name: CmdQuit, Usage: CmdQuit, Description: "Leave the casino", Run: func(context.Context, []string) error { return errQuit }},
	}
}

func (r *REPL) cmdHUD(context.Context, []string) error {
	v := r.sess.Snapshot()
	if v.Profile == nil {
		return errors.New(domain.MsgNoSession)
	}
	r.renderHUD(v)
	return nil
}

func (r *REPL) cmdBet(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New(domain.MsgInvalidBet)
	}
	var bet int
	if _, err := fmt.Sscanf(args[0], "%d", &bet); err != nil {
		return errors.New(domain.MsgInvalidBet)
	}
	if err := r.sess.SetBet(bet); err != nil {
		return errors.New(domain.MsgInvalidBet)
	}
	r.printf(MsgBetSet+"\n", bet)
	return nil
}

func (r *REPL) cmdSpin(ctx context.Context, args []string) error {
	theme := ""
	if len(args) > 0 {
		theme = args[0]
	}
	result, err := r.sess.PlaySlot(ctx, theme)
	if result != nil {
		r.renderSlot(result)
		r.renderHUD(r.sess.Snapshot())
	}
	if err != nil {
		return errors.New(domain.PlayErrorMessage(err))
	}
	return nil
}

func (r *REPL) cmdPop(ctx context.Context, args []string) error {
	game := ""
	if len(args) > 0 {
		game = args[0]
	}
	result, err := r.sess.PlayMini(ctx, game)
	if result != nil {
		r.renderMini(result)
		r.renderHUD(r.sess.Snapshot())
	}
	if err != nil {
		return errors.New(domain.PlayErrorMessage(err))
	}
	return nil
}

func (r *REPL) cmdQuests(context.Context, []string) error {
	r.renderQuests(r.sess.Snapshot().Quests)
	return nil
}

func (r *REPL) cmdEvents(context.Context, []string) error {
	r.renderEvents(r.sess.Snapshot().Events)
	return nil
}

func (r *REPL) cmdGames(context.Context, []string) error {
	r.renderGames()
	return nil
}

func (r *REPL) cmdOnboard(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New(MsgOnboardHint)
	}
	name := args[0]
	userID := ""
	if len(args) > 1 {
		userID = args[1]
	} else if r.suggest != nil {
		userID = r.suggest()
	}

	p, err := r.sess.Onboard(ctx, userID, name)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return vErr
		}
		return errors.New(domain.MsgOnboardingFailed)
	}
	r.printf(MsgWelcome+"\n", p.DisplayName)
	r.renderHUD(r.sess.Snapshot())
	return nil
}

func (r *REPL) cmdLogout(ctx context.Context, _ []string) error {
	if err := r.sess.Logout(ctx); err != nil {
		return errors.New(MsgLogoutFailed)
	}
	r.println(MsgLoggedOut)
	r.println(MsgOnboardHint)
	return nil
}

func (r *REPL) cmdRefresh(ctx context.Context, _ []string) error {
	if _, err := r.sess.RefreshProfile(ctx); err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			return errors.New(domain.MsgNoSession)
		}
		return errors.New(MsgRefreshFailed)
	}
	r.renderHUD(r.sess.Snapshot())
	if _, err := r.sess.SyncMeta(ctx); err != nil {
		return errors.New(domain.MsgMetaSyncFailed)
	}
	return nil
}

func (r *REPL) cmdHistory(ctx context.Context, args []string) error {
	id := r.sess.Snapshot().Identity
	if id == nil {
		return errors.New(domain.MsgNoSession)
	}
	limit := eventlog.DefaultHistoryLimit
	if len(args) > 0 {
		if _, err := fmt.Sscanf(args[0], "%d", &limit); err != nil || limit <= 0 {
			return errors.New(MsgHistoryUsage)
		}
	}
	entries, err := r.history.Recent(ctx, id.UserID, limit)
	if err != nil {
		return errors.New(MsgHistoryFailed)
	}
	r.renderHistory(entries)
	return nil
}

func (r *REPL) cmdHelp(context.Context, []string) error {
	names := make([]string, 0, len(r.commands))
	width := 0
	for name, c := range r.commands {
		names = append(names, name)
		width = max(width, len(c.Usage))
	}
	sort.Strings(names)

	r.println("Commands:")
	for _, name := range names {
		c := r.commands[name]
		r.printf("  %-*s  %s\n", width, c.Usage, c.Description)
	}
	return nil
}

func (r *REPL) println(s string) {
	fmt.Fprintln(r.out, s)
}

func (r *REPL) printf(format string, a ...any) {
	fmt.Fprintf(r.out, format, a...)
}
