package system

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/dayview"
	"github.com/julianstephens/dailies/internal/models"
	"github.com/julianstephens/dailies/internal/storage"
)

type DebugCmd struct {
	DBPath  *DebugDBPathCmd  `cmd:"" name:"db-path" help:"Show database path."`
	DumpDay *DebugDumpDayCmd `cmd:"" help:"Dump a day's list and progress as JSON."`
	DumpDoc *DebugDumpDocCmd `cmd:"" help:"Dump a stored document or collection as JSON."`
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{"path": ctx.Store.GetConfigPath()})
}

type dumpedRow struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Kind         string             `json:"kind"`
	Checked      bool               `json:"checked"`
	Exercises    []dayview.Exercise `json:"exercises,omitempty"`
	HobbyMinutes int                `json:"hobbyMinutes,omitempty"`
	Error        string             `json:"error,omitempty"`
}

type dumpedDay struct {
	Day      string          `json:"day"`
	Progress models.Progress `json:"progress"`
	Items    []dumpedRow     `json:"items"`
}

type DebugDumpDayCmd struct {
	Date string `arg:"" optional:"" help:"Day to dump (YYYY-MM-DD). Defaults to today."`
}

func (cmd *DebugDumpDayCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	day, err := ctx.Day(cmd.Date)
	if err != nil {
		return err
	}

	view, err := dayview.Load(ctx.Ctx(), dayview.Sources{
		Lists:    ctx.Lists,
		Statuses: ctx.Objectives,
		Hobbies:  ctx.Hobbies,
		Tracker:  ctx.Tracker,
	}, user.UID, day)
	if err != nil {
		return err
	}

	out := dumpedDay{Day: view.Day, Progress: view.Progress, Items: make([]dumpedRow, len(view.Rows))}
	for i, row := range view.Rows {
		out.Items[i] = dumpedRow{
			ID:           row.Item.ID,
			Title:        row.Item.Title,
			Kind:         row.Kind.String(),
			Checked:      row.Checked,
			Exercises:    row.Exercises,
			HobbyMinutes: row.Hobby.TotalMinutes(),
		}
		if row.Err != nil {
			out.Items[i].Error = row.Err.Error()
		}
	}
	return printJSON(out)
}

type dumpedDoc struct {
	Path      string         `json:"path"`
	Fields    map[string]any `json:"fields"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func dump(doc storage.Document) dumpedDoc {
	return dumpedDoc{Path: doc.Path.String(), Fields: doc.Fields, CreatedAt: doc.CreatedAt, UpdatedAt: doc.UpdatedAt}
}

type DebugDumpDocCmd struct {
	Path string `arg:"" help:"Slash-separated path, e.g. users/UID/dailyList."`
}

func (cmd *DebugDumpDocCmd) Run(ctx *cli.Context) error {
	path := storage.ParsePath(cmd.Path)
	if len(path) == 0 {
		return fmt.Errorf("invalid path: %q", cmd.Path)
	}

	if path.IsCollection() {
		docs, err := ctx.Store.GetCollection(ctx.Ctx(), path)
		if err != nil {
			return fmt.Errorf("failed to read collection: %w", err)
		}
		out := make([]dumpedDoc, len(docs))
		for i, doc := range docs {
			out[i] = dump(doc)
		}
		return printJSON(out)
	}

	doc, err := ctx.Store.Get(ctx.Ctx(), path)
	if storage.IsNotFound(err) {
		return fmt.Errorf("document not found: %s", path)
	}
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	return printJSON(dump(doc))
}
