/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/rpmurphy2/pickleball-round-robin/internal"
	"github.com/rpmurphy2/pickleball-round-robin/render"
	"github.com/rpmurphy2/pickleball-round-robin/roster"
	"github.com/rpmurphy2/pickleball-round-robin/roundrobin"
	"github.com/rpmurphy2/pickleball-round-robin/store"
)

type RrSubCommand string

const (
	RrAboutCmd    RrSubCommand = "about"
	RrHelpCmd     RrSubCommand = "help"
	RrTeamsCmd    RrSubCommand = "teams"
	RrPlayersCmd  RrSubCommand = "players"
	RrScheduleCmd RrSubCommand = "schedule"
)

var rrSubCmdHdlrs = map[RrSubCommand]CmdHandler{
	RrAboutCmd:    rrAboutCmdHandler,
	RrHelpCmd:     rrHelpCmdHandler,
	RrTeamsCmd:    rrTeamsCmdHandler,
	RrPlayersCmd:  rrPlayersCmdHandler,
	RrScheduleCmd: rrScheduleCmdHandler,
}

// rosters is where the bot reads saved rosters from; defaultSession is the
// roster shown when the command names none.
var (
	rosters        store.Store
	storePrefix    = internal.DefaultPrefix
	defaultSession = "cli"
	botConfig      = &internal.Config{Courts: roundrobin.DefaultCourts}
)

func rrCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := rrHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := rrSubCmdHdlrs[RrSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

func newEphemeralResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

// subOptions indexes the options of the invoked subcommand by name.
func subOptions(inter *discordgo.Interaction) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	data := inter.ApplicationCommandData()
	if len(data.Options) > 0 {
		for _, opt := range data.Options[0].Options {
			opts[opt.Name] = opt
		}
	}
	return opts
}

//go:embed about.txt
var aboutText string

func rrAboutCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	resp.Data.Content = truncateContent(fmt.Sprintf(aboutText, internal.Version))

	return resp
}

//go:embed help.md
var helpText string

func rrHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	resp.Data.Content = truncateContent(helpText)
	return resp
}

// loadRoster reads the roster named by the "session" option.
func loadRoster(ctx context.Context,
	opts map[string]*discordgo.ApplicationCommandInteractionDataOption) (*roster.Roster, string, error) {

	session := defaultSession
	if opt, ok := opts["session"]; ok {
		if v := strings.TrimSpace(opt.StringValue()); v != "" {
			session = v
		}
	}
	if rosters == nil {
		return nil, session, fmt.Errorf("no roster store is configured")
	}
	return roster.Restore(ctx, rosters, storePrefix+session+":"), session, nil
}

func rrTeamsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	opts := subOptions(inter)
	r, session, err := loadRoster(ctx, opts)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading roster %v: %v", session, err)
		log.Printf("discordbot.teams: %v", resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(render.BuildTeamsOutput(r.Entrants().Teams)))
	if opt, ok := opts["broadcast"]; ok && opt.BoolValue() {
		resp.Data.Flags = 0
	}

	return resp
}

func rrPlayersCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	opts := subOptions(inter)
	r, session, err := loadRoster(ctx, opts)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading roster %v: %v", session, err)
		log.Printf("discordbot.players: %v", resp.Data.Content)
		return resp
	}

	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(render.BuildPlayersOutput(r.Entrants().Players)))
	if opt, ok := opts["broadcast"]; ok && opt.BoolValue() {
		resp.Data.Flags = 0
	}

	return resp
}

// rrScheduleCmdHandler handles /rr schedule, building a fresh schedule from
// the saved roster. With a round option only that round is shown.
func rrScheduleCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	opts := subOptions(inter)

	cfg := roundrobin.DefaultConfig()
	cfg.Courts = botConfig.Courts
	cfg.StartTime = botConfig.StartTime
	cfg.RoundDuration = botConfig.RoundDuration
	if botConfig.SolverTimeout > 0 || botConfig.SolverNodes > 0 {
		cfg.Budget = roundrobin.Budget{MaxNodes: botConfig.SolverNodes,
			Timeout: botConfig.SolverTimeout}
	}
	if opt, ok := opts["courts"]; ok {
		cfg.Courts = int(opt.IntValue())
	}
	if opt, ok := opts["mode"]; ok {
		mode, err := roundrobin.ParseMode(opt.StringValue())
		if err != nil {
			resp.Data.Content = fmt.Sprintf("Invalid mode: %v", err)
			return resp
		}
		cfg.Mode = mode
	}
	if opt, ok := opts["start"]; ok {
		start, err := internal.ParseDateOrZero(opt.StringValue())
		if err != nil {
			resp.Data.Content = fmt.Sprintf("Invalid start time %q: %v",
				opt.StringValue(), err)
			return resp
		}
		cfg.StartTime = start
	}
	if opt, ok := opts["roundminutes"]; ok {
		cfg.RoundDuration = time.Duration(opt.IntValue()) * time.Minute
	}

	r, session, err := loadRoster(ctx, opts)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading roster %v: %v", session, err)
		log.Printf("discordbot.schedule: %v", resp.Data.Content)
		return resp
	}
	sess, err := roundrobin.NewSession(cfg)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Invalid settings: %v", err)
		return resp
	}
	sched, err := sess.Generate(ctx, r.Entrants(), nil)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Cannot build a schedule for %v: %v",
			session, err)
		log.Printf("discordbot.schedule: %v", resp.Data.Content)
		return resp
	}

	var out string
	if opt, ok := opts["round"]; ok {
		n := int(opt.IntValue())
		if sched.Round(n) == nil {
			resp.Data.Content = fmt.Sprintf("Round %v does not exist; the schedule has %v rounds.",
				n, len(sched.Rounds))
			return resp
		}
		out = render.BuildRoundOutput(sched, n, sess.RoundStart(n))
	} else {
		out = render.BuildSummaryOutput(sess.Summary()) + "\n" +
			render.BuildScheduleOutput(sched, sess.RoundStart)
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```", truncateContent(out))
	if opt, ok := opts["broadcast"]; ok && opt.BoolValue() {
		resp.Data.Flags = 0
	}

	return resp
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
