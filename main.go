package main

import (
	"fmt"
	"os"

	"github.com/keystonebuyers/propsite/internal/commands"
	"github.com/keystonebuyers/propsite/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "render":
		err = commands.Render(os.Args[2:])
	case "title":
		err = commands.Title(os.Args[2:])
	case "listings", "ls":
		err = commands.Listings(os.Args[2:])
	case "browse":
		err = commands.Browse()
	case "check":
		err = commands.Check(os.Args[2:])
	case "import":
		err = commands.Import(os.Args[2:])
	case "contact":
		err = commands.Contact(os.Args[2:])
	case "leads":
		err = commands.Leads(os.Args[2:])
	case "status":
		err = commands.Status()
	case "config":
		err = commands.Config(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("propsite v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	os.Exit(commands.ExitCode(err))
}

func printUsage() {
	usage := fmt.Sprintf(`propsite - Content tooling for the Keystone Buyers property site

Usage:
  propsite <command> [options]

Commands:
  render      Render a post body (--format html|markdown|term)
  title       Sanitize a raw post title to safe inline HTML
  listings    Print a filtered, sorted page of listings
  browse      Interactive listings browser with contact form
  check       Compare rendered posts with HTML snapshots (--update to accept)
  import      Copy the content export into sqlite or postgres
  contact     Submit a lead (contact, cash-offer, book-viewing)
  leads       List captured leads
  status      Show source, content and snapshot status
  config      Show configuration ('config init' writes defaults)
  version     Show version information
  help        Show this help message

Examples:
  propsite render selling-fast --format html
  propsite render ./drafts/new-post.yaml
  propsite title "How to <b>sell fast</b>"
  propsite listings --location austin --beds 3 --sort price-asc
  propsite listings --include-sold --page 2
  propsite check --update
  propsite import --to sqlite
  propsite contact --kind book-viewing --name Ana --email ana@example.com --listing lst-001

Configuration:
  Config file: %s
  Leads file:  %s
`, config.ConfigPath(), config.LeadsFilePath())
	fmt.Print(usage)
}
