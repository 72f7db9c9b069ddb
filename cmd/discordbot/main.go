/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"

	"github.com/rpmurphy2/pickleball-round-robin/internal"
	"github.com/rpmurphy2/pickleball-round-robin/store"
)

var botPubKey ed25519.PublicKey

var client *discordgo.Session

type TopLevelCommand string

const (
	RrCmd TopLevelCommand = "rr"

	// cmdHashKey holds the hash of the last registered command definition.
	cmdHashKey = "discordCmdHash"
)

type CmdHandler func(ctx context.Context,
	i *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	RrCmd: rrCmdHandler,
}

// newInteractionHandler answers discord interaction webhooks signed with
// pubKey.
func newInteractionHandler(pubKey ed25519.PublicKey) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !discordgo.VerifyInteraction(r, pubKey) {
			log.Printf("discordbot.int: failed to verify")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Printf("discordbot.int: failed to read request body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var inter discordgo.Interaction
		if err := inter.UnmarshalJSON(body); err != nil {
			log.Printf("discordbot.int: failed to unmarshal interaction: err:%v body:%v",
				err, string(body))
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		resp := &discordgo.InteractionResponse{}
		if inter.Type == discordgo.InteractionPing {
			resp.Type = discordgo.InteractionResponsePong
		} else if inter.Type == discordgo.InteractionApplicationCommand {
			hdlr, ok :=
				topLevelCmdHdlrs[TopLevelCommand(inter.ApplicationCommandData().Name)]
			if !ok {
				resp.Type = discordgo.InteractionResponseChannelMessageWithSource
				resp.Data = &discordgo.InteractionResponseData{
					Content: fmt.Sprintf("unknown command '%v'",
						inter.ApplicationCommandData().Name),
					Flags: discordgo.MessageFlagsEphemeral,
				}
			} else {
				resp = hdlr(r.Context(), &inter)
			}
		} else {
			log.Printf("discordbot.int: unimplemented interation type %v", inter.Type)
			w.WriteHeader(http.StatusNotImplemented)
			return
		}

		rawResp, err := json.Marshal(resp)
		if err != nil {
			log.Printf("discordbot.int: failed to marshal resp: err:%v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if _, err = w.Write(rawResp); err != nil {
			log.Printf("discordbot.int: failed to write resp: err:%v", err)
		}
	}
}

func cmdDefinitionHash(cmd *discordgo.ApplicationCommand) (string, error) {
	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		return "", fmt.Errorf("discordbot.reg: failed to marshal cmd: %w", err)
	}
	hash := sha256.Sum256(cmdJson)
	return hex.EncodeToString(hash[:]), nil
}

// shouldUpdateCmdRegistration compares cmd against the hash saved after the
// last successful registration.
func shouldUpdateCmdRegistration(cmd *discordgo.ApplicationCommand,
	hashes store.Store) (bool, string) {

	hexString, err := cmdDefinitionHash(cmd)
	if err != nil {
		log.Printf("%v", err)
		return false, ""
	}
	last, ok := hashes.Get(storePrefix + cmdHashKey)
	return !ok || string(last) != hexString, hexString
}

func broadcastOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "broadcast",
		Description: "Share with the rest of the channel instead of only to you (default is false)",
		Required:    false,
	}
}

func sessionOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "session",
		Description: "Saved roster to use (default is the rrtd roster)",
		Required:    false,
	}
}

func rrCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        string(RrCmd),
		Description: "Pickleball round robin commands; try /rr help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(RrHelpCmd),
				Description: "Show usage for rr",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(RrAboutCmd),
				Description: "Show information about pickleball-round-robin",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(RrTeamsCmd),
				Description: "List the teams of a saved roster",
				Options: []*discordgo.ApplicationCommandOption{
					sessionOption(),
					broadcastOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(RrPlayersCmd),
				Description: "List the individual players of a saved roster",
				Options: []*discordgo.ApplicationCommandOption{
					sessionOption(),
					broadcastOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(RrScheduleCmd),
				Description: "Build a schedule from a saved roster",
				Options: []*discordgo.ApplicationCommandOption{
					sessionOption(),
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "mode",
						Description: "fixed, rotating or mixed (default is fixed)",
						Required:    false,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "fixed", Value: "fixed"},
							{Name: "rotating", Value: "rotating"},
							{Name: "mixed", Value: "mixed"},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "courts",
						Description: "Number of courts",
						Required:    false,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "round",
						Description: "Only show this round",
						Required:    false,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "start",
						Description: "Start time of round 1",
						Required:    false,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "roundminutes",
						Description: "Minutes per round",
						Required:    false,
					},
					broadcastOption(),
				},
			},
		},
	}
}

func registerSlashCommands(cfg *internal.Config, hashes store.Store) {
	cmdDef := rrCommand()

	if cfg.DiscordCmdID == "" {
		cmd, err := client.ApplicationCommandCreate(cfg.DiscordAppID, "", cmdDef)
		if err != nil {
			log.Printf("discordbot.reg: failed to register %v: %v", cmdDef.Name,
				err)
			return
		}

		log.Printf("discordbot.reg: registered %v(cmdID:%v); set RR_DISCORD_CMD_ID",
			cmd.Name, cmd.ID)
	} else if update, hash := shouldUpdateCmdRegistration(cmdDef, hashes); update {
		cmd, err := client.ApplicationCommandEdit(cfg.DiscordAppID, "",
			cfg.DiscordCmdID, cmdDef)
		if err != nil {
			log.Printf("discordbot.reg: failed to update %v: %v", cmdDef.Name,
				err)
			return
		}
		hashes.Set(storePrefix+cmdHashKey, []byte(hash))

		log.Printf("discordbot.reg: updated %v(cmdID:%v)", cmd.Name, cmd.ID)
	}
}

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
}

func main() {
	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("discordbot.main: %v", err)
	}
	if cfg.DiscordToken == "" || cfg.DiscordPubKey == "" || cfg.DiscordAppID == "" {
		log.Fatalf("discordbot.main: RR_DISCORD_TOKEN, RR_DISCORD_PUBKEY and RR_DISCORD_APP_ID must be set")
	}

	pubKeyBytes, err := hex.DecodeString(cfg.DiscordPubKey)
	if err != nil {
		log.Fatalf("discordbot.main: Failed to parse public key: %v", err)
	}
	botPubKey = ed25519.PublicKey(pubKeyBytes)

	client, err = discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatalf("discordbot.main: Failed to initialize discord client: %v", err)
	}

	rosters, err = store.Open(context.Background(), cfg.StoreURL)
	if err != nil {
		log.Fatalf("discordbot.main: Failed to open store %v: %v", cfg.StoreURL, err)
	}
	defer store.Close(rosters)
	storePrefix = cfg.Prefix
	botConfig = cfg

	go registerSlashCommands(cfg, rosters)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Printf("discordbot.main: starting server on %v%v", hostname, cfg.ListenAddr)

	http.HandleFunc("/DiscordBot/Interaction", newInteractionHandler(botPubKey))
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Printf("discordbot.main: Serve failed: %v", err)
	}

	log.Printf("discordbot.main: exiting")
}
