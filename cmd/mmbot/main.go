/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/mikeb26/mcmahon-td/internal"
	"github.com/mikeb26/mcmahon-td/s3cache"
)

type TopLevelCommand string

const MmCmd TopLevelCommand = internal.DiscordCommandName

type CmdHandler func(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse

// bot answers discord interactions from the tournaments in its store.
type bot struct {
	cfg    *internal.Config
	pubKey ed25519.PublicKey
	bucket *s3cache.Bucket

	topLevelCmdHdlrs map[TopLevelCommand]CmdHandler
}

func newBot(ctx context.Context, cfg *internal.Config) (*bot, error) {
	pubKeyBytes, err := hex.DecodeString(cfg.DiscordPubKey)
	if err != nil || len(pubKeyBytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("failed to parse public key %q: %v",
			cfg.DiscordPubKey, err)
	}
	b := &bot{
		cfg:    cfg,
		pubKey: ed25519.PublicKey(pubKeyBytes),
	}
	if cfg.S3Bucket != "" {
		b.bucket = s3cache.NewBucket(cfg.S3Bucket, cfg.S3Gzip)
		if err := b.bucket.Init(ctx); err != nil {
			return nil, err
		}
	}
	b.topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
		MmCmd: b.mmCmdHandler,
	}

	return b, nil
}

func (b *bot) interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, b.pubKey) {
		log.Printf("mmbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("mmbot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.Printf("mmbot.int: failed to unmarshal interaction: err:%v body:%v",
			err, string(body))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		name := inter.ApplicationCommandData().Name
		hdlr, ok := b.topLevelCmdHdlrs[TopLevelCommand(name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'", name),
				Flags:   discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(r.Context(), &inter)
		}
	} else {
		log.Printf("mmbot.int: unimplemented interaction type %v", inter.Type)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		log.Printf("mmbot.int: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rawResp); err != nil {
		log.Printf("mmbot.int: failed to write resp: err:%v", err)
	}
}

func registerSlashCommands(cfg *internal.Config) {
	if cfg.DiscordToken == "" || cfg.DiscordAppID == "" {
		log.Printf("mmbot.reg: no discord token or app id; skipping registration")
		return
	}
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Printf("mmbot.reg: failed to initialize discord client: %v", err)
		return
	}
	session.UserAgent = internal.UserAgent

	mmCmd := mmCommand()
	cmd, err := session.ApplicationCommandCreate(cfg.DiscordAppID, "", mmCmd)
	if err != nil {
		log.Printf("mmbot.reg: failed to register %v: %v", mmCmd.Name, err)
		return
	}
	log.Printf("mmbot.reg: registered %v(cmdID:%v)", cmd.Name, cmd.ID)
}

func mmCommand() *discordgo.ApplicationCommand {
	commonOpts := []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "tournament",
			Description: "Tournament name (default is the current tournament)",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "broadcast",
			Description: "Share with the rest of the channel instead of only to you (default is false)",
			Required:    false,
		},
	}

	return &discordgo.ApplicationCommand{
		Name:        string(MmCmd),
		Description: "McMahon tournament commands; try /mm help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(MmHelpCmd),
				Description: "Show usage for mm",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(MmStandingsCmd),
				Description: "Show the current standings",
				Options:     commonOpts,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(MmPairingsCmd),
				Description: "Show the latest round's pairings",
				Options:     commonOpts,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(MmWallCmd),
				Description: "Show the wall list",
				Options:     commonOpts,
			},
		},
	}
}

func main() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
	ctx := context.Background()

	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("mmbot.main: %v", err)
	}
	b, err := newBot(ctx, cfg)
	if err != nil {
		log.Fatalf("mmbot.main: %v", err)
	}
	go registerSlashCommands(cfg)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Printf("mmbot.main: starting server on %v%v", hostname, cfg.ListenAddr)

	http.HandleFunc("/DiscordBot/Interaction", b.interactionHandler)
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Fatalf("mmbot.main: Serve failed: %v", err)
	}
}
