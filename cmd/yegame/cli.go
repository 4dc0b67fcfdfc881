package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/yegame-client/internal/api"
	"github.com/radieske/yegame-client/internal/api/dto"
	"github.com/radieske/yegame-client/internal/app"
	"github.com/radieske/yegame-client/internal/display"
	"github.com/radieske/yegame-client/internal/httpclient"
	"github.com/radieske/yegame-client/internal/shared/logger"
	"github.com/radieske/yegame-client/internal/shared/metrics"
)

var errUsage = errors.New("usage")

// errNotLoggedIn: comando exige sessão e não há usuário em cache
var errNotLoggedIn = errors.New("로그인이 필요합니다")

const usage = `usage: yegame <command> [flags]

commands:
  login -u <username> -p <password>
  register -u <username> -e <email> -p <password>
  logout
  whoami
  issues [-category <cat>] [-q <search>]
  issue -id <id>
  bet -issue <id> -choice Yes|No -amount <coins>
  bets
  stats -issue <id>
  watch [-interval 10s] [-category <cat>] [-q <search>]
  issue-create -title <t> -category <cat> -yes <0-100> -end <RFC3339|duration> [-popular]
  issue-update -id <id> -title <t> -category <cat> -yes <0-100> -end <RFC3339|duration> [-popular]
  issue-delete -id <id>
  toggle-popular -id <id>
`

type cli struct {
	app *app.App
	out io.Writer
	log *zap.Logger
	now func() time.Time

	metricsPort string
}

func newCLI(a *app.App, out io.Writer, log *zap.Logger) *cli {
	return &cli{app: a, out: out, log: logger.OrNop(log), now: time.Now}
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.out, usage)
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "login":
		return c.login(ctx, rest)
	case "register":
		return c.register(ctx, rest)
	case "logout":
		return c.logout(ctx)
	case "whoami":
		return c.whoami(ctx)
	case "issues":
		return c.issues(ctx, rest)
	case "issue":
		return c.issue(ctx, rest)
	case "bet":
		return c.bet(ctx, rest)
	case "bets":
		return c.bets(ctx)
	case "stats":
		return c.stats(ctx, rest)
	case "watch":
		return c.watch(ctx, rest)
	case "issue-create":
		return c.issueCreate(ctx, rest)
	case "issue-update":
		return c.issueUpdate(ctx, rest)
	case "issue-delete":
		return c.issueDelete(ctx, rest)
	case "toggle-popular":
		return c.togglePopular(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(c.out, usage)
		return nil
	default:
		fmt.Fprint(c.out, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (c *cli) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

// ---------- auth ----------

func (c *cli) login(ctx context.Context, args []string) error {
	fs := newFlags("login")
	user := fs.String("u", "", "username")
	pass := fs.String("p", "", "password")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if *user == "" || *pass == "" {
		return fmt.Errorf("%w: login requires -u and -p", errUsage)
	}

	res, err := c.app.Auth.Login(ctx, *user, *pass)
	if err != nil {
		return authError(res, err)
	}
	// token sem perfil é aceito; o perfil vem no próximo login
	if res.User == nil {
		fmt.Fprintln(c.out, "로그인 성공")
		return nil
	}
	fmt.Fprintf(c.out, "로그인 성공: %s (%s 감)\n", res.User.Username, display.FormatNumber(res.User.Coins))
	return nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := newFlags("register")
	user := fs.String("u", "", "username")
	email := fs.String("e", "", "email")
	pass := fs.String("p", "", "password")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if *user == "" || *email == "" || *pass == "" {
		return fmt.Errorf("%w: register requires -u, -e and -p", errUsage)
	}

	res, err := c.app.Auth.Register(ctx, *user, *email, *pass)
	if err != nil {
		return authError(res, err)
	}
	if res.User == nil {
		fmt.Fprintln(c.out, "회원가입 완료")
		return nil
	}
	fmt.Fprintf(c.out, "회원가입 완료: %s (%s 감 지급)\n", res.User.Username, display.FormatNumber(res.User.Coins))
	return nil
}

// authError mostra a mensagem do corpo quando o login veio sem token
func authError(res *dto.AuthResponse, err error) error {
	if errors.Is(err, api.ErrAuthRejected) && res != nil && res.Message != "" {
		return fmt.Errorf("%w: %s", err, res.Message)
	}
	return err
}

func (c *cli) logout(ctx context.Context) error {
	if err := c.app.Auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "로그아웃 되었습니다")
	return nil
}

func (c *cli) whoami(ctx context.Context) error {
	u, err := c.currentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s <%s>\n보유 감: %s\n", u.Username, u.Email, display.FormatNumber(u.Coins))
	return nil
}

// currentUser exige token e usuário em cache
func (c *cli) currentUser(ctx context.Context) (*dto.User, error) {
	ok, err := c.app.Auth.IsAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	u, err := c.app.Auth.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if !ok || u == nil {
		return nil, errNotLoggedIn
	}
	return u, nil
}

// ---------- issues ----------

func (c *cli) issues(ctx context.Context, args []string) error {
	fs := newFlags("issues")
	category := fs.String("category", display.CategoryAll, "category filter")
	query := fs.String("q", "", "title search")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	return c.printIssues(ctx, *category, *query)
}

func (c *cli) printIssues(ctx context.Context, category, query string) error {
	res, err := c.app.Issues.GetAll(ctx)
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("이슈를 불러오지 못했습니다: %s", res.Message)
	}

	list := display.FilterIssues(res.Issues, category, query)
	if len(list) == 0 {
		fmt.Fprintln(c.out, "검색 결과가 없습니다")
		return nil
	}
	now := c.now()
	for _, it := range list {
		star := " "
		if it.IsPopular {
			star = "*"
		}
		fmt.Fprintf(c.out, "%s #%-4d [%s] %s  Yes %s / No %s  거래량 %s  %s\n",
			star, it.ID, it.Category, it.Title,
			display.FormatPercent(float64(it.YesPrice)), display.FormatPercent(float64(it.NoPrice())),
			display.FormatNumber(it.TotalVolume), display.FormatDate(it.EndDate, now))
	}
	return nil
}

func (c *cli) issue(ctx context.Context, args []string) error {
	fs := newFlags("issue")
	id := fs.Int64("id", 0, "issue id")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("%w: issue requires -id", errUsage)
	}

	res, err := c.app.Issues.Get(ctx, *id)
	if err != nil {
		return err
	}
	if !res.Success || res.Issue == nil {
		return fmt.Errorf("이슈를 찾을 수 없습니다: %s", res.Message)
	}
	c.printIssue(*res.Issue)
	return nil
}

func (c *cli) printIssue(it dto.Issue) {
	fmt.Fprintf(c.out, "#%d [%s] %s\n", it.ID, it.Category, it.Title)
	fmt.Fprintf(c.out, "  Yes %s  No %s\n", display.FormatPercent(float64(it.YesPrice)), display.FormatPercent(float64(it.NoPrice())))
	fmt.Fprintf(c.out, "  거래량 %s (Yes %s / No %s)\n",
		display.FormatNumber(it.TotalVolume), display.FormatNumber(it.YesVolume), display.FormatNumber(it.NoVolume))
	fmt.Fprintf(c.out, "  %s\n", display.FormatDate(it.EndDate, c.now()))
}

// ---------- bets ----------

func (c *cli) bet(ctx context.Context, args []string) error {
	fs := newFlags("bet")
	issueID := fs.Int64("issue", 0, "issue id")
	choice := fs.String("choice", "", "Yes or No")
	amount := fs.Int64("amount", 0, "coins")
	if err := c.parse(fs, args); err != nil {
		return err
	}

	u, err := c.currentUser(ctx)
	if err != nil {
		return err
	}

	ch := dto.Choice(*choice)
	switch {
	case *issueID <= 0:
		return fmt.Errorf("%w: bet requires -issue", errUsage)
	case !ch.Valid():
		return errors.New("Yes 또는 No를 선택해주세요")
	case *amount <= 0:
		return errors.New("베팅 금액을 입력해주세요")
	case *amount > u.Coins:
		return errors.New("보유 감이 부족합니다")
	}

	if _, err := c.app.Bets.Place(ctx, u.ID, *issueID, ch, *amount); err != nil {
		return err
	}

	// saldo local decrementado de forma otimista pelo valor pedido;
	// o formato do corpo de resposta não importa aqui
	u.Coins -= *amount
	if err := c.app.Session.SetUser(ctx, *u); err != nil {
		c.log.Warn("failed to update cached coins", zap.Error(err))
	}

	fmt.Fprintf(c.out, "베팅 완료: #%d %s %s 감 (남은 감 %s)\n",
		*issueID, ch, display.FormatNumber(*amount), display.FormatNumber(u.Coins))
	return nil
}

func (c *cli) bets(ctx context.Context) error {
	u, err := c.currentUser(ctx)
	if err != nil {
		return err
	}
	list, err := c.app.Bets.UserBets(ctx, u.ID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(c.out, "베팅 내역이 없습니다")
		return nil
	}

	var active int
	for _, b := range list {
		status := "진행중"
		if b.Status == dto.BetEnded {
			status = "종료"
		} else {
			active++
		}
		fmt.Fprintf(c.out, "#%-4d [%s] %s  %s %s 감  %s\n",
			b.ID, b.Category, b.Title, b.Choice, display.FormatNumber(b.Amount), status)
	}
	fmt.Fprintf(c.out, "총 %d건 (진행중 %d)\n", len(list), active)
	return nil
}

func (c *cli) stats(ctx context.Context, args []string) error {
	fs := newFlags("stats")
	issueID := fs.Int64("issue", 0, "issue id")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if *issueID <= 0 {
		return fmt.Errorf("%w: stats requires -issue", errUsage)
	}

	st, err := c.app.Bets.Stats(ctx, *issueID)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "#%d 베팅 %d건, 총 %s 감\n", *issueID, st.TotalBets, display.FormatNumber(st.TotalAmount))
	fmt.Fprintf(c.out, "  Yes %d건 %s 감 / No %d건 %s 감\n",
		st.YesCount, display.FormatNumber(st.YesAmount), st.NoCount, display.FormatNumber(st.NoAmount))
	return nil
}

// ---------- watch ----------

// watch recarrega a lista periodicamente até o ctx ser cancelado
func (c *cli) watch(ctx context.Context, args []string) error {
	fs := newFlags("watch")
	interval := fs.Duration("interval", 10*time.Second, "refresh interval")
	category := fs.String("category", display.CategoryAll, "category filter")
	query := fs.String("q", "", "title search")
	count := fs.Int("n", 0, "stop after n refreshes (0 = forever)")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if *interval <= 0 {
		return fmt.Errorf("%w: -interval must be positive", errUsage)
	}

	if c.metricsPort != "" {
		srv := metrics.StartMetricsServer(c.metricsPort, func(ctx context.Context) error {
			_, err := c.app.Session.IsAuthenticated(ctx)
			return err
		})
		defer srv.Close()
		c.log.Info("metrics/health", zap.String("addr", ":"+c.metricsPort))
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		fmt.Fprintf(c.out, "--- %s ---\n", c.now().Format("15:04:05"))
		if err := c.printIssues(ctx, *category, *query); err != nil {
			// 401 encerra: a sessão já foi limpa
			if errors.Is(err, httpclient.ErrUnauthorized) {
				return err
			}
			fmt.Fprintln(c.out, errorText(err))
		}
		if *count > 0 && n >= *count {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// ---------- admin ----------

func issueFlags(name string) (*flag.FlagSet, *dto.IssueInput, *string, *string) {
	fs := newFlags(name)
	in := &dto.IssueInput{}
	fs.StringVar(&in.Title, "title", "", "title")
	category := fs.String("category", "", "category")
	fs.IntVar(&in.YesPrice, "yes", 50, "yes price 0-100")
	end := fs.String("end", "", "end date (RFC3339) or duration from now")
	fs.BoolVar(&in.IsPopular, "popular", false, "mark as popular")
	return fs, in, category, end
}

func (c *cli) fillIssue(in *dto.IssueInput, category, end string) error {
	in.Category = dto.Category(category)
	if !in.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", errUsage, category)
	}
	if in.YesPrice < 0 || in.YesPrice > 100 {
		return fmt.Errorf("%w: -yes must be between 0 and 100", errUsage)
	}
	t, err := parseEnd(end, c.now())
	if err != nil {
		return err
	}
	in.EndDate = t
	return nil
}

// parseEnd aceita RFC3339 ou uma duração relativa (ex: 72h)
func parseEnd(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: -end is required", errUsage)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid -end %q", errUsage, s)
	}
	return now.Add(d).UTC().Truncate(time.Second), nil
}

func (c *cli) issueCreate(ctx context.Context, args []string) error {
	fs, in, category, end := issueFlags("issue-create")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if err := c.fillIssue(in, *category, *end); err != nil {
		return err
	}

	it, err := c.app.Issues.Create(ctx, *in)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "이슈 생성 완료")
	c.printIssue(*it)
	return nil
}

func (c *cli) issueUpdate(ctx context.Context, args []string) error {
	fs, in, category, end := issueFlags("issue-update")
	id := fs.Int64("id", 0, "issue id")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("%w: issue-update requires -id", errUsage)
	}
	if err := c.fillIssue(in, *category, *end); err != nil {
		return err
	}

	it, err := c.app.Issues.Update(ctx, *id, *in)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "이슈 수정 완료")
	c.printIssue(*it)
	return nil
}

func (c *cli) issueDelete(ctx context.Context, args []string) error {
	fs := newFlags("issue-delete")
	id := fs.Int64("id", 0, "issue id")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("%w: issue-delete requires -id", errUsage)
	}
	if err := c.app.Issues.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "이슈 #%d 삭제 완료\n", *id)
	return nil
}

func (c *cli) togglePopular(ctx context.Context, args []string) error {
	fs := newFlags("toggle-popular")
	id := fs.Int64("id", 0, "issue id")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("%w: toggle-popular requires -id", errUsage)
	}

	it, err := c.app.Issues.TogglePopular(ctx, *id)
	if err != nil {
		return err
	}
	state := "해제"
	if it.IsPopular {
		state = "지정"
	}
	fmt.Fprintf(c.out, "이슈 #%d 인기 %s\n", it.ID, state)
	return nil
}

// ---------- erros ----------

// errorText devolve a mensagem do servidor quando houver, senão o erro
func errorText(err error) string {
	var herr *httpclient.HTTPError
	if errors.As(err, &herr) && herr.Message != "" {
		return herr.Message
	}
	if errors.Is(err, httpclient.ErrUnauthorized) {
		return "세션이 만료되었습니다. 다시 로그인해주세요"
	}
	return err.Error()
}

func exitCode(err error) int {
	if errors.Is(err, errUsage) {
		return 2
	}
	return 1
}
