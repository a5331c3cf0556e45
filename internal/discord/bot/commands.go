/* Shuuro server — realtime core
Copyright (C) 2026 Shuuro server contributors

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>. */

package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// applicationCommands returns all slash command definitions to register with Discord.
func applicationCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "games",
			Description: "Show the number of live Shuuro matches.",
		},
		{
			Name:        "shutdown",
			Description: "Persist and retire every live match.",
		},
	}
}

// registerCommands registers all slash commands with Discord.
func (b *Bot) registerCommands() error {
	cmds := applicationCommands()
	registered := make([]*discordgo.ApplicationCommand, 0, len(cmds))
	for _, cmd := range cmds {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.guildID, cmd)
		if err != nil {
			return fmt.Errorf("failed to register command %q: %w", cmd.Name, err)
		}
		registered = append(registered, created)
	}
	b.commands = registered
	return nil
}

// commandHandlers returns the mapping of command names to handler functions.
func (b *Bot) commandHandlers() map[string]func(*discordgo.Session, *discordgo.InteractionCreate) {
	return map[string]func(*discordgo.Session, *discordgo.InteractionCreate){
		"games":    b.handleGames,
		"shutdown": b.handleShutdown,
	}
}

func (b *Bot) handleGames(s *discordgo.Session, i *discordgo.InteractionCreate) {
	count := b.server.GameCount()
	respondEmbed(s, i, infoEmbed("Live matches", fmt.Sprintf("%d match(es) in progress.", count)))
}

func (b *Bot) handleShutdown(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requireMod(s, i) {
		return
	}
	b.server.Shutdown()
	respondEmbed(s, i, successEmbed("Shutdown", "Every live match is being persisted and retired."))
}
