// Command schedcal manages and expands recurring schedule items from the
// command line, backed by a local SQLite database.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/schedkit/schedkit"
	"github.com/schedkit/schedkit/pkg/rule"
)

func main() {
	// Load .env first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "schedcal",
		Usage: "Manage and expand recurring schedule items.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "SQLite database path (default $SCHEDCAL_DB or schedcal.db)"},
			&cli.StringFlag{Name: "user", Value: "default", Usage: "User id to operate as."},
		},
		Commands: []*cli.Command{
			addCommand(),
			agendaCommand(),
			moveCommand(),
			detachCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("schedcal failed", "error", err)
		os.Exit(1)
	}
}

func openPlanner(c *cli.Context) (*schedkit.Planner, error) {
	path := c.String("db")
	if path == "" {
		path = os.Getenv("SCHEDCAL_DB")
	}
	if path == "" {
		path = "schedcal.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}

	store := schedkit.NewGormStore(db)
	if err := store.Migrate(c.Context); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return schedkit.New(store), nil
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Create an event or task, optionally recurring.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Required: true},
			&cli.StringFlag{Name: "start", Required: true, Usage: "Start date, YYYY-MM-DD."},
			&cli.StringFlag{Name: "start-time", Usage: "Start time, HH:MM."},
			&cli.StringFlag{Name: "end", Usage: "End date, YYYY-MM-DD."},
			&cli.StringFlag{Name: "end-time", Usage: "End time, HH:MM."},
			&cli.BoolFlag{Name: "all-day"},
			&cli.BoolFlag{Name: "task", Usage: "Create a task instead of an event."},
			&cli.StringFlag{Name: "description"},
			&cli.StringFlag{Name: "location"},
			&cli.StringFlag{Name: "repeat", Usage: "daily, weekly, monthly or yearly."},
			&cli.IntFlag{Name: "interval", Value: 1, Usage: "Repeat every N units."},
			&cli.StringFlag{Name: "byday", Usage: "Weekday filter for weekly repeats, e.g. MO,WE,FR."},
			&cli.IntFlag{Name: "count", Usage: "Stop after N occurrences."},
			&cli.StringFlag{Name: "until", Usage: "Last occurrence date, YYYY-MM-DD."},
		},
		Action: func(c *cli.Context) error {
			p, err := openPlanner(c)
			if err != nil {
				return err
			}

			draft := schedkit.Draft{
				UserID:      c.String("user"),
				Title:       c.String("title"),
				Description: c.String("description"),
				Location:    c.String("location"),
				StartTime:   c.String("start-time"),
				EndTime:     c.String("end-time"),
				AllDay:      c.Bool("all-day"),
			}
			if c.Bool("task") {
				draft.Kind = schedkit.KindTask
			}

			if draft.StartDate, err = parseDate(c.String("start")); err != nil {
				return err
			}
			if s := c.String("end"); s != "" {
				if draft.EndDate, err = parseDate(s); err != nil {
					return err
				}
			}

			if repeat := c.String("repeat"); repeat != "" {
				draft.Repeats = true
				draft.Frequency = schedkit.Frequency(strings.ToUpper(repeat))
				draft.Interval = c.Int("interval")
				draft.ByDay = rule.ParseDays(c.String("byday"))
				draft.Count = c.Int("count")
				if s := c.String("until"); s != "" {
					if draft.Until, err = parseDate(s); err != nil {
						return err
					}
				}
			}

			item, err := p.Create(c.Context, draft)
			if err != nil {
				return err
			}
			fmt.Printf("created %s %q (%s)\n", item.Kind, item.Title, item.ID)
			if item.Recurring() {
				fmt.Printf("  rule: %s\n", item.Rule)
			}
			return nil
		},
	}
}

func agendaCommand() *cli.Command {
	return &cli.Command{
		Name:  "agenda",
		Usage: "List every occurrence within a window (default: current month).",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "Window start, YYYY-MM-DD."},
			&cli.StringFlag{Name: "to", Usage: "Window end, YYYY-MM-DD."},
			&cli.BoolFlag{Name: "ics", Usage: "Emit iCalendar instead of a table."},
		},
		Action: func(c *cli.Context) error {
			p, err := openPlanner(c)
			if err != nil {
				return err
			}

			from := now.BeginningOfMonth()
			to := now.EndOfMonth()
			if s := c.String("from"); s != "" {
				if from, err = parseDate(s); err != nil {
					return err
				}
			}
			if s := c.String("to"); s != "" {
				if to, err = parseDate(s); err != nil {
					return err
				}
			}

			instances, err := p.Agenda(c.Context, c.String("user"), from, to)
			if err != nil {
				return err
			}

			if c.Bool("ics") {
				fmt.Print(schedkit.ExportICS(instances))
				return nil
			}

			for _, inst := range instances {
				when := inst.AnchorStart.Format("15:04")
				if inst.AnchorEnd != nil {
					when += " - " + inst.AnchorEnd.Format("15:04")
				}
				if inst.AllDay {
					when = "all day"
				}
				marker := " "
				if inst.IsRecurringInstance {
					marker = "*"
				}
				fmt.Printf("%s %s  %-13s  %s\n",
					marker, inst.AnchorStart.Format("2006-01-02"), when, inst.Title)
			}
			return nil
		},
	}
}

func moveCommand() *cli.Command {
	return &cli.Command{
		Name:  "move",
		Usage: "Move an item (and its whole series, if recurring) to a new date.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Required: true},
			&cli.StringFlag{Name: "to", Required: true, Usage: "Target date, YYYY-MM-DD."},
		},
		Action: func(c *cli.Context) error {
			p, err := openPlanner(c)
			if err != nil {
				return err
			}
			target, err := parseDate(c.String("to"))
			if err != nil {
				return err
			}

			item, err := p.RescheduleSeries(c.Context, c.String("id"), target)
			if err != nil {
				return err
			}
			fmt.Printf("moved %q to %s\n", item.Title, item.AnchorStart.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func detachCommand() *cli.Command {
	return &cli.Command{
		Name:  "detach",
		Usage: "Detach one occurrence of a recurring item as an independent one-off.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Required: true, Usage: "Base item id."},
			&cli.StringFlag{Name: "on", Required: true, Usage: "Occurrence date to detach, YYYY-MM-DD."},
			&cli.StringFlag{Name: "to", Required: true, Usage: "Target date, YYYY-MM-DD."},
		},
		Action: func(c *cli.Context) error {
			p, err := openPlanner(c)
			if err != nil {
				return err
			}

			on, err := parseDate(c.String("on"))
			if err != nil {
				return err
			}
			target, err := parseDate(c.String("to"))
			if err != nil {
				return err
			}

			instances, err := p.Agenda(c.Context, c.String("user"), on, on)
			if err != nil {
				return err
			}

			id := c.String("id")
			for _, inst := range instances {
				if inst.IsRecurringInstance && inst.BaseID == id {
					item, err := p.DetachOccurrence(c.Context, inst, target)
					if err != nil {
						return err
					}
					fmt.Printf("detached %q onto %s (%s)\n",
						item.Title, item.AnchorStart.Format("2006-01-02 15:04"), item.ID)
					return nil
				}
			}
			return fmt.Errorf("no occurrence of %q on %s", id, on.Format("2006-01-02"))
		},
	}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
