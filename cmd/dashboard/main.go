// Command dashboard is a terminal admin client for the Vilo Assist backend.
// It drives the same view model as the web dashboard: load, filter, status
// transitions and confirmation emails.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"vilo-admin/internal/client"
	"vilo-admin/internal/dashboard"
	"vilo-admin/internal/logging"
	"vilo-admin/internal/notify"
	"vilo-admin/internal/workflow"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: dashboard <command> [args]

Commands:
  contacts [status]         list contacts, optionally filtered by status
  appointments [status]     list appointments
  testimonials [status]     list testimonials
  update <kind> <id> <to>   transition an entity (kind: contact|appointment|testimonial)
  send <kind> <id>          re-send the confirmation email
  stats                     counts per kind and status

Environment: API_URL, ADMIN_TOKEN, MAIL_FROM`)
	os.Exit(2)
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
	}

	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/api"
	}
	token := os.Getenv("ADMIN_TOKEN")
	if token == "" {
		log.Fatal("ADMIN_TOKEN is required")
	}
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "no-reply@viloassist.com"
	}

	logger := logging.Discard()
	api := client.New(baseURL, token)
	dispatcher := notify.NewDispatcher(api, from, logger)
	d := dashboard.New(api, dispatcher, logger)
	d.OnNotice(func(n dashboard.Notice) {
		if n.Error {
			fmt.Fprintf(os.Stderr, "!! %s: %s\n", n.Title, n.Description)
		} else {
			fmt.Printf("-- %s: %s\n", n.Title, n.Description)
		}
	})
	d.OnLogout(func() {
		fmt.Fprintln(os.Stderr, "Session expirée, reconnectez-vous.")
		os.Exit(1)
	})

	ctx := context.Background()
	if err := d.Load(ctx); err != nil {
		os.Exit(1)
	}

	switch cmd := os.Args[1]; cmd {
	case "contacts":
		applyFilter(d, os.Args[2:])
		for _, c := range d.FilteredContacts() {
			fmt.Printf("%4d  %-12s %-30s %-25s %s\n", c.ID, c.Status, c.Name, c.Email, c.Service)
		}
	case "appointments":
		applyFilter(d, os.Args[2:])
		for _, a := range d.FilteredAppointments() {
			fmt.Printf("%4d  %-12s %-30s %-25s %s %s\n", a.ID, a.Status, a.ClientName, a.ClientEmail, a.Date, a.Time)
		}
	case "testimonials":
		applyFilter(d, os.Args[2:])
		for _, tm := range d.FilteredTestimonials() {
			fmt.Printf("%4d  %-12s %-30s %d/5  %s\n", tm.ID, tm.Status, tm.Name, tm.Rating, tm.Comment)
		}
	case "update":
		kind, id := parseEntity(os.Args[2:])
		if len(os.Args) < 5 {
			usage()
		}
		if err := d.Transition(ctx, kind, id, os.Args[4]); err != nil {
			os.Exit(1)
		}
	case "send":
		kind, id := parseEntity(os.Args[2:])
		if err := d.SendConfirmation(ctx, kind, id); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "stats":
		for kind, byStatus := range d.Stats() {
			fmt.Printf("%s:\n", kind)
			for status, n := range byStatus {
				fmt.Printf("  %-12s %d\n", status, n)
			}
		}
	default:
		usage()
	}
}

func applyFilter(d *dashboard.Dashboard, args []string) {
	if len(args) > 0 {
		d.SetStatusFilter(args[0])
	}
}

func parseEntity(args []string) (workflow.Kind, int64) {
	if len(args) < 2 {
		usage()
	}
	var kind workflow.Kind
	switch args[0] {
	case "contact":
		kind = workflow.KindContact
	case "appointment":
		kind = workflow.KindAppointment
	case "testimonial":
		kind = workflow.KindTestimonial
	default:
		usage()
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id < 1 {
		log.Fatalf("invalid id %q", args[1])
	}
	return kind, id
}
