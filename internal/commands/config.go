package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/keystonebuyers/propsite/internal/config"
	"github.com/keystonebuyers/propsite/internal/styles"
)

// Config shows the active configuration, or writes the defaults with "config init"
func Config(args []string) error {
	if len(args) > 0 && args[0] == "init" {
		return initConfig()
	}

	cfg, err := config.Load()
	if err != nil {
		return fail("Error loading config", err)
	}

	path := config.ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path += " (not found, using defaults)"
	}

	fmt.Println(styles.TitleStyle.Render("Propsite Configuration"))
	fmt.Println()
	rows := [][2]string{
		{"Config file", path},
		{"Source", cfg.Source},
		{"Content", describeSource(cfg)},
		{"Snapshots", cfg.SnapshotDir},
		{"Page size", fmt.Sprintf("%d", cfg.PageSize)},
		{"Lead-in phrases", strings.Join(cfg.LeadInPhrases, ", ")},
		{"Placeholder", cfg.EmptyPlaceholder},
		{"Query timeout", cfg.QueryTimeout.String()},
		{"Log level", cfg.LogLevel},
		{"Log file", orDash(cfg.LogFile)},
		{"Leads file", config.LeadsFilePath()},
	}
	for _, r := range rows {
		fmt.Printf("  %s %s\n", styles.LabelStyle.Render(fmt.Sprintf("%-16s", r[0]+":")), styles.ValueStyle.Render(r[1]))
	}
	return nil
}

func initConfig() error {
	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil {
		return fail("Config already exists at "+path, nil)
	}

	if err := config.DefaultConfig().Save(); err != nil {
		return fail("Error writing config", err)
	}
	fmt.Println(styles.SuccessStyle.Render("✓ Wrote default config to " + path))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
