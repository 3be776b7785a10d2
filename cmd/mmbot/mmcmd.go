/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"path/filepath"

	"github.com/bwmarrin/discordgo"
	"github.com/mikeb26/mcmahon-td/mcmahon"
	"github.com/mikeb26/mcmahon-td/store"
)

type MmSubCommand string

const (
	MmHelpCmd      MmSubCommand = "help"
	MmStandingsCmd MmSubCommand = "standings"
	MmPairingsCmd  MmSubCommand = "pairings"
	MmWallCmd      MmSubCommand = "wall"
)

// reportBuilders renders a loaded tournament for each report subcommand.
var reportBuilders = map[MmSubCommand]func(t *mcmahon.Tournament) string{
	MmStandingsCmd: mcmahon.BuildStandingsOutput,
	MmPairingsCmd:  mcmahon.BuildPairingsOutput,
	MmWallCmd:      mcmahon.BuildWallListOutput,
}

func (b *bot) mmCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	if len(data.Options) > 0 {
		sub := MmSubCommand(data.Options[0].Name)
		if _, ok := reportBuilders[sub]; ok {
			return b.mmReportCmdHandler(ctx, sub, inter)
		}
	}
	return mmHelpCmdHandler(ctx, inter)
}

//go:embed help.md
var helpText string

func mmHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: truncateContent(helpText),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}

// storeFor returns the store holding the named tournament; an empty name
// selects the configured default.
func (b *bot) storeFor(name string) store.Store {
	if name == "" {
		name = b.cfg.File
	} else {
		name = filepath.Join(filepath.Dir(b.cfg.File), filepath.Base(name))
		if filepath.Ext(name) == "" {
			name += ".yaml"
		}
	}
	if b.bucket != nil {
		return store.NewS3Store(b.bucket, name)
	}

	return store.NewFileStore(name)
}

func (b *bot) mmReportCmdHandler(ctx context.Context, sub MmSubCommand,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
	data := inter.ApplicationCommandData()
	broadcast := false // default
	name := ""
	for _, opt := range data.Options[0].Options {
		if opt.Name == "tournament" {
			name = opt.StringValue()
		} else if opt.Name == "broadcast" {
			broadcast = opt.BoolValue()
		}
	}

	s := b.storeFor(name)
	tourney, err := s.Load(ctx)
	if err == nil {
		err = tourney.Recompute()
	}
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading tournament: %v", err)
		log.Printf("mmbot.%v: %v: %v", sub, s, resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("**%v**\n```\n%s```", tourney.Name,
		truncateContent(reportBuilders[sub](tourney)))
	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1900 // keep space for the title and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
