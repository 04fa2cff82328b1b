package bot

import (
	"fmt"
	"strings"

	"github.com/foxseedlab/pipelinebot/internal/chat"
)

const (
	commandPipeline = "pipeline"
	commandMR       = "mr"
	commandChatID   = "chatid"
	commandStatus   = "status"
	commandTest     = "test"
	commandHelp     = "help"
	commandStart    = "start"

	consoleUnknownCommand = "UNKNOWN_CMD"
	consoleNoUsername     = "no_username"

	errorTextMaxRunes = 200
)

const (
	messageChatNotConfigured    = "❌ Chat not configured"
	messageTokenNotConfigured   = "❌ GitLab token not configured"
	messageProjectNotConfigured = "❌ Project ID not configured"
	messageClientInitFailed     = "❌ Failed to initialize GitLab client"
	messageClientNotInitialized = "❌ GitLab client not initialized"
	messageNoPipeline           = "❌ No pipeline found"
	messageProjectNotFound      = "❌ Project not found"
	messageNotEnoughMRs         = "❌ Not enough MRs found"
	messageUnknownCommand       = "❌ Unknown command. Use /help for available commands."
	messageErrorOccurred        = "❌ Error occurred"
	messageTestingConnection    = "🔄 Testing GitLab connection..."
	messageAuthFailed           = "❌ Authentication failed: invalid token"

	messageErrorFormat           = "❌ Error: %s"
	messageGitLabErrorFormat     = "❌ GitLab error: %s"
	messageConnectionErrorFormat = "❌ Connection error: %s"
	messageConnectionOKFormat    = "✅ Connection successful\nUser: %s"
	messageChatIDFormat          = "Chat ID: `%d`"
	messageStatusFormat          = "✅ Chat configured\nProject ID: %d\nGitLab client: %s"
	messageConnectionTestFormat  = "\n\nConnection test: %s"

	messageClientInitialized = "✅ Initialized"
	messageClientMissing     = "❌ Not initialized"
)

var commandDefinitions = []chat.CommandDefinition{
	{Name: commandPipeline, Description: "Latest pipeline of the project"},
	{Name: commandMR, Description: "Latest merge request with reviewer comments"},
	{Name: commandChatID, Description: "Show this chat's id"},
	{Name: commandStatus, Description: "Show chat configuration status"},
	{Name: commandTest, Description: "Test the GitLab connection"},
	{Name: commandHelp, Description: "List available commands"},
}

// CommandDefinitions lists the commands advertised to the chat platform.
func CommandDefinitions() []chat.CommandDefinition {
	out := make([]chat.CommandDefinition, len(commandDefinitions))
	copy(out, commandDefinitions)
	return out
}

func helpText() string {
	lines := []string{"Available commands:"}
	for _, def := range commandDefinitions {
		lines = append(lines, fmt.Sprintf("/%s - %s", def.Name, def.Description))
	}
	return strings.Join(lines, "\n")
}

func errorText(format string, err error) string {
	return fmt.Sprintf(format, truncateRunes(err.Error(), errorTextMaxRunes))
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
