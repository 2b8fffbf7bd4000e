package prompt

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mindmate-app/mindmate/pkg/domain/model"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
)

//go:embed chat_system.md
var chatSystemPromptTmpl string

var chatSystemPrompt = template.Must(template.New("chat_system").Parse(chatSystemPromptTmpl))

// PlaceholderReport is used when no character analysis exists yet
const PlaceholderReport = "No character analysis has been generated yet."

// BuildInput carries everything the assembler folds into one instruction
// context. The assembled string embeds the latest message and freshly
// retrieved memories, so it is valid for exactly one turn and never cached.
type BuildInput struct {
	UserID          types.UserID
	DisplayName     string
	LatestMessage   string
	CharacterReport string
	Memories        []*model.MemoryRecord
	PendingTasks    []string
	Today           time.Time
	ExtraRules      []string
}

// Assembler builds the per-turn instruction context for the generation
// call: retrieved memories with relative date labels, the deterministic
// unfinished-task safety net, the character summary and the behavioral
// rule set, in fixed order.
type Assembler struct {
	appName string
}

// New creates an Assembler. appName is the companion's self-identity in
// the preamble; empty falls back to "MindMate".
func New(appName string) *Assembler {
	if appName == "" {
		appName = "MindMate"
	}
	return &Assembler{appName: appName}
}

type promptData struct {
	AppName     string
	Today       string
	Name        string
	MemoryLines []string
	TaskLines   []string
	Report      string
	ExtraRules  []string
}

// Build renders the instruction context for one turn
func (a *Assembler) Build(in BuildInput) (string, error) {
	data := promptData{
		AppName:    a.appName,
		Today:      in.Today.Format("January 2, 2006"),
		Name:       in.DisplayName,
		Report:     in.CharacterReport,
		ExtraRules: in.ExtraRules,
	}
	if data.Name == "" {
		data.Name = "friend"
	}
	if data.Report == "" {
		data.Report = PlaceholderReport
	}

	for _, mem := range in.Memories {
		data.MemoryLines = append(data.MemoryLines, memoryLine(mem, in.Today))
	}
	for _, task := range in.PendingTasks {
		if task == "" {
			continue
		}
		data.TaskLines = append(data.TaskLines, "- "+task)
	}

	var buf bytes.Buffer
	if err := chatSystemPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render chat system prompt")
	}

	return buf.String(), nil
}

// memoryLine formats one retrieved memory as a bullet. The date label is
// omitted when the record carries no date attribute.
func memoryLine(mem *model.MemoryRecord, today time.Time) string {
	memType := mem.Attr(model.AttrType)
	if memType == "" {
		memType = "memory"
	}

	text := mem.Text
	if text == "" {
		text = mem.Attr("text")
	}

	if date := mem.Attr(model.AttrDate); date != "" {
		return fmt.Sprintf("- %s %s: '%s'", RelativeDate(date, today), memType, text)
	}
	return fmt.Sprintf("- %s: '%s'", memType, text)
}

// RelativeDate renders an ISO day string relative to today: "Today",
// "Yesterday", or the long calendar form. Unparseable input is returned
// unchanged rather than dropped.
func RelativeDate(date string, today time.Time) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}

	todayStr := today.Format("2006-01-02")
	yesterdayStr := today.AddDate(0, 0, -1).Format("2006-01-02")

	switch d.Format("2006-01-02") {
	case todayStr:
		return "Today"
	case yesterdayStr:
		return "Yesterday"
	default:
		return d.Format("January 2, 2006")
	}
}
