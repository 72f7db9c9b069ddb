/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rpmurphy2/pickleball-round-robin/internal"
	"github.com/rpmurphy2/pickleball-round-robin/render"
	"github.com/rpmurphy2/pickleball-round-robin/roster"
	"github.com/rpmurphy2/pickleball-round-robin/roundrobin"
	"github.com/rpmurphy2/pickleball-round-robin/store"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":         handleHelp,
	"teams":        handleTeams,
	"add":          handleAdd,
	"remove":       handleRemove,
	"players":      handlePlayers,
	"addplayer":    handleAddPlayer,
	"removeplayer": handleRemovePlayer,
	"quickadd":     handleQuickAdd,
	"schedule":     handleSchedule,
	"reset":        handleReset,
}

// cliSession is the store namespace holding the CLI's roster.
const cliSession = "cli:"

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

// rosterStore opens the configured store and loads the CLI roster from it.
type rosterStore struct {
	cfg    *internal.Config
	st     store.Store
	prefix string
	roster *roster.Roster
}

func openRoster(ctx context.Context) *rosterStore {
	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	st, err := store.Open(ctx, cfg.StoreURL)
	if err != nil {
		log.Fatalf("Error opening store %v: %v", cfg.StoreURL, err)
	}
	rs := &rosterStore{cfg: cfg, st: st, prefix: cfg.Prefix + cliSession}
	rs.roster = roster.Restore(ctx, st, rs.prefix)

	return rs
}

func (rs *rosterStore) save(ctx context.Context) {
	if err := rs.roster.Save(ctx, rs.st, rs.prefix); err != nil {
		log.Fatalf("Error saving roster: %v", err)
	}
}

func (rs *rosterStore) close() {
	if err := store.Close(rs.st); err != nil {
		log.Printf("rrtd: failed to close store: %v", err)
	}
}

func handleTeams(ctx context.Context, args []string) {
	rs := openRoster(ctx)
	defer rs.close()
	fmt.Print(render.BuildTeamsOutput(rs.roster.Entrants().Teams))
}

func handlePlayers(ctx context.Context, args []string) {
	rs := openRoster(ctx)
	defer rs.close()
	fmt.Print(render.BuildPlayersOutput(rs.roster.Entrants().Players))
}

func handleAdd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	p1 := fs.String("p1", "", "First player's name")
	p2 := fs.String("p2", "", "Second player's name")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	rs := openRoster(ctx)
	defer rs.close()
	team, err := rs.roster.AddTeam(*p1, *p2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot add team: %v\n", err)
		fs.Usage()
		os.Exit(1)
	}
	rs.save(ctx)
	fmt.Printf("Added team %v: %v\n", team.TeamID, team.Name())
}

func handleRemove(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	id := fs.Int("id", 0, "Team id to remove")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *id <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --id.")
		fs.Usage()
		os.Exit(1)
	}

	rs := openRoster(ctx)
	defer rs.close()
	if err := rs.roster.RemoveTeam(roundrobin.UnitID(*id)); err != nil {
		log.Fatalf("Error removing team %v: %v", *id, err)
	}
	rs.save(ctx)
	fmt.Printf("Removed team %v\n", *id)
}

func handleAddPlayer(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("addplayer", flag.ExitOnError)
	name := fs.String("name", "", "Player's name")
	roleStr := fs.String("role", "", "Player's role for mixed play (M or F)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	role, err := roundrobin.ParseRole(*roleStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --role: %v\n", err)
		os.Exit(1)
	}

	rs := openRoster(ctx)
	defer rs.close()
	p, err := rs.roster.AddPlayer(*name, role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot add player: %v\n", err)
		fs.Usage()
		os.Exit(1)
	}
	rs.save(ctx)
	fmt.Printf("Added player %v: %v\n", p.ID, p.Name)
}

func handleRemovePlayer(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("removeplayer", flag.ExitOnError)
	id := fs.Int("id", 0, "Player id to remove")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *id <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --id.")
		fs.Usage()
		os.Exit(1)
	}

	rs := openRoster(ctx)
	defer rs.close()
	if err := rs.roster.RemovePlayer(roundrobin.PlayerID(*id)); err != nil {
		log.Fatalf("Error removing player %v: %v", *id, err)
	}
	rs.save(ctx)
	fmt.Printf("Removed player %v\n", *id)
}

func handleQuickAdd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("quickadd", flag.ExitOnError)
	file := fs.String("file", "", "Read entries from this file instead of stdin")
	url := fs.String("url", "", "Fetch entries from this url")
	players := fs.Bool("players", false,
		"Entries are individual players (\"Name\" or \"Name, M|F\")")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	rs := openRoster(ctx)
	defer rs.close()

	var text string
	var err error
	switch {
	case *url != "":
		client := internal.NewCachedHttpClient(rs.st, 10*time.Minute)
		text, err = internal.FetchText(ctx, client, *url)
		if err == nil {
			text, err = roster.SignupLines(text)
		}
	case *file != "":
		var data []byte
		data, err = os.ReadFile(*file)
		text = string(data)
	default:
		var data []byte
		data, err = io.ReadAll(os.Stdin)
		text = string(data)
	}
	if err != nil {
		log.Fatalf("Error reading entries: %v", err)
	}

	var added int
	if *players {
		var ps []roundrobin.Player
		ps, err = rs.roster.QuickAddPlayers(text)
		added = len(ps)
	} else {
		var ts []roundrobin.Team
		ts, err = rs.roster.QuickAddTeams(text)
		added = len(ts)
	}
	if err != nil {
		log.Fatalf("Error adding entries: %v", err)
	}
	rs.save(ctx)
	fmt.Printf("Added %v entries\n", added)
}

// stringList collects a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, " ") }
func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// parseLockFlags turns --lock "R:A-B,C-D" and --bye "R:U" values into
// locked rounds ordered by round number.
func parseLockFlags(lockArgs, byeArgs []string) ([]roundrobin.LockedRound, error) {
	byRound := make(map[int]*roundrobin.LockedRound)
	get := func(n int) *roundrobin.LockedRound {
		lr, ok := byRound[n]
		if !ok {
			lr = &roundrobin.LockedRound{Number: n}
			byRound[n] = lr
		}
		return lr
	}
	split := func(arg string) (int, string, error) {
		roundStr, rest, ok := strings.Cut(arg, ":")
		if !ok {
			return 0, "", fmt.Errorf("%q: expected ROUND:VALUE", arg)
		}
		n, err := strconv.Atoi(strings.TrimSpace(roundStr))
		if err != nil || n < 1 {
			return 0, "", fmt.Errorf("%q: bad round number", arg)
		}
		return n, strings.TrimSpace(rest), nil
	}

	for _, arg := range lockArgs {
		n, rest, err := split(arg)
		if err != nil {
			return nil, err
		}
		lr := get(n)
		for _, m := range strings.Split(rest, ",") {
			if strings.TrimSpace(m) == "" {
				continue
			}
			key, err := roundrobin.ParseMatchupKey(m)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", arg, err)
			}
			lr.Matchups = append(lr.Matchups, key)
		}
	}
	for _, arg := range byeArgs {
		n, rest, err := split(arg)
		if err != nil {
			return nil, err
		}
		unit, err := strconv.Atoi(rest)
		if err != nil || unit < 1 {
			return nil, fmt.Errorf("%q: bad team id", arg)
		}
		lr := get(n)
		if lr.Bye != 0 {
			return nil, fmt.Errorf("%q: round %v already has a bye", arg, n)
		}
		lr.Bye = roundrobin.UnitID(unit)
	}

	locks := make([]roundrobin.LockedRound, 0, len(byRound))
	for _, lr := range byRound {
		locks = append(locks, *lr)
	}
	sort.Slice(locks, func(i, j int) bool {
		return locks[i].Number < locks[j].Number
	})
	return locks, nil
}

func handleSchedule(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	courts := fs.Int("courts", 0, "Number of courts (default from RR_COURTS)")
	mode := fs.String("mode", "fixed", "Tournament mode: fixed, rotating or mixed")
	start := fs.String("start", "", "Start time of round 1, e.g. \"2025-06-07 09:00\"")
	roundMinutes := fs.Int("round-minutes", 0, "Minutes per round")
	budget := fs.Duration("budget", 0, "Solver time budget (default from RR_SOLVER_TIMEOUT)")
	var lockArgs, byeArgs stringList
	fs.Var(&lockArgs, "lock", "Lock matchups into a round, e.g. \"3:1-2,4-5\" (repeatable)")
	fs.Var(&byeArgs, "bye", "Pin a bye, e.g. \"2:5\" gives team 5 the bye in round 2 (repeatable)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	locks, err := parseLockFlags(lockArgs, byeArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid lock: %v\n", err)
		fs.Usage()
		os.Exit(1)
	}
	m, err := roundrobin.ParseMode(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --mode: %v\n", err)
		os.Exit(1)
	}

	rs := openRoster(ctx)
	defer rs.close()

	cfg := roundrobin.DefaultConfig()
	cfg.Mode = m
	cfg.Courts = rs.cfg.Courts
	if *courts > 0 {
		cfg.Courts = *courts
	}
	cfg.Budget = roundrobin.Budget{MaxNodes: rs.cfg.SolverNodes,
		Timeout: rs.cfg.SolverTimeout}
	if *budget > 0 {
		cfg.Budget.Timeout = *budget
	}
	cfg.StartTime = rs.cfg.StartTime
	cfg.RoundDuration = rs.cfg.RoundDuration
	if *start != "" {
		if cfg.StartTime, err = internal.ParseDateOrZero(*start); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --start: %v\n", err)
			os.Exit(1)
		}
	}
	if *roundMinutes > 0 {
		cfg.RoundDuration = time.Duration(*roundMinutes) * time.Minute
	}

	sess, err := roundrobin.NewSession(cfg)
	if err != nil {
		log.Fatalf("Error configuring schedule: %v", err)
	}
	s, err := sess.Generate(ctx, rs.roster.Entrants(), locks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot generate schedule: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(render.BuildSummaryOutput(sess.Summary()))
	fmt.Println()
	fmt.Print(render.BuildScheduleOutput(s, sess.RoundStart))
}

func handleReset(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Confirm removal of every team and player")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if !*yes {
		fmt.Fprintln(os.Stderr, "Refusing to reset without --yes.")
		os.Exit(1)
	}

	rs := openRoster(ctx)
	defer rs.close()
	rs.roster.Reset()
	rs.save(ctx)
	fmt.Println("Roster cleared")
}
