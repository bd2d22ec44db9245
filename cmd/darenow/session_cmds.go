package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"dareNowConsole/internal/modules/session/application/port"
	"dareNowConsole/internal/modules/session/application/usecase"
	"dareNowConsole/internal/modules/session/domain"
	"dareNowConsole/internal/modules/session/infrastructure"
)

func runLogin(ctx context.Context, a *app, args []string, out io.Writer) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("usage: darenow login admin|restaurant [flags]")
	}
	variant, err := domain.ParseVariant(args[0])
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	user := fs.String("user", "", "admin username")
	email := fs.String("email", "", "restaurant email")
	passwordStdin := fs.Bool("password-stdin", false, "read the password from stdin")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	p := newPrompter(a.in, out)
	identifier := *user
	label := "Username: "
	if variant == domain.VariantRestaurant {
		identifier, label = *email, "Email: "
	}
	if identifier == "" {
		if identifier, err = p.line(label); err != nil {
			return err
		}
	}
	var password string
	if *passwordStdin {
		password, err = p.line("")
	} else {
		password, err = p.secret("Password: ")
	}
	if err != nil {
		return err
	}

	result, err := a.lifecycle.Login(ctx, variant, port.Credentials{Identifier: identifier, Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✅ Signed in as %s (%s). Landing view: %s\n", displayName(result.Session), variant, result.Landing)
	return nil
}

func runLogout(ctx context.Context, a *app, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: darenow logout admin|restaurant|all")
	}
	variants := domain.Variants
	if args[0] != "all" {
		variant, err := domain.ParseVariant(args[0])
		if err != nil {
			return err
		}
		variants = []domain.Variant{variant}
	}
	for _, variant := range variants {
		_, present := a.store.Read(ctx, variant)
		if _, err := a.lifecycle.Logout(ctx, variant); err != nil {
			return err
		}
		if present {
			fmt.Fprintf(out, "✅ Logged out of the %s session.\n", variant)
		} else {
			fmt.Fprintf(out, "ℹ️  No %s session found.\n", variant)
		}
	}
	return nil
}

type whoamiSession struct {
	Variant   string         `json:"variant"`
	Name      string         `json:"name"`
	Subject   string         `json:"subject,omitempty"`
	Role      string         `json:"role,omitempty"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty"`
	Verified  bool           `json:"verified"`
	Profile   domain.Profile `json:"profile"`
}

func runWhoAmI(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sessions := make([]whoamiSession, 0, len(domain.Variants))
	for _, variant := range domain.Variants {
		session, ok := a.store.Read(ctx, variant)
		if !ok {
			continue
		}
		entry := whoamiSession{Variant: variant.String(), Name: displayName(session), Profile: session.Profile}
		if info, err := a.inspector.Inspect(session.Token); err == nil && !info.Opaque {
			entry.Subject, entry.Role, entry.Verified = info.Subject, info.Role, info.Verified
			if !info.ExpiresAt.IsZero() {
				expires := info.ExpiresAt
				entry.ExpiresAt = &expires
			}
		}
		sessions = append(sessions, entry)
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(out, "ℹ️  Not signed in. Run 'darenow login admin' or 'darenow login restaurant'.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VARIANT\tNAME\tSUBJECT\tEXPIRES")
	for _, s := range sessions {
		expires := "-"
		if s.ExpiresAt != nil {
			expires = s.ExpiresAt.Format(time.RFC3339)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Variant, s.Name, fallback(s.Subject, "-"), expires)
	}
	return w.Flush()
}

func runPasswd(ctx context.Context, a *app, args []string, out io.Writer) error {
	if len(args) > 0 {
		return fmt.Errorf("usage: darenow passwd")
	}
	if _, ok := a.store.Read(ctx, domain.VariantAdmin); !ok {
		return domain.NewAuthError(domain.ErrUnauthorized, "Please sign in again to change your password.")
	}
	p := newPrompter(a.in, out)
	current, err := p.secret("Current password: ")
	if err != nil {
		return err
	}
	next, err := p.secret("New password: ")
	if err != nil {
		return err
	}
	confirm, err := p.secret("Confirm new password: ")
	if err != nil {
		return err
	}
	if err := usecase.ConfirmPassword(next, confirm); err != nil {
		return err
	}
	if err := a.lifecycle.UpdatePassword(ctx, domain.VariantAdmin, current, next); err != nil {
		a.sessionHint(out)
		return err
	}
	fmt.Fprintln(out, "✅ Password updated successfully.")
	return nil
}

func runStatus(ctx context.Context, a *app, args []string, out io.Writer) error {
	if len(args) > 0 {
		return fmt.Errorf("usage: darenow status")
	}
	presence := usecase.ComputePresence(ctx, a.store)
	fmt.Fprintln(out, "DareNow console status")
	fmt.Fprintln(out, "──────────────────────")
	if a.cfg != nil {
		fmt.Fprintf(out, "API:            %s\n", a.cfg.REST.BaseURL)
		fmt.Fprintf(out, "Session store:  %s\n", storeDescription(a))
		fmt.Fprintf(out, "Kafka brokers:  %s\n", fallback(strings.Join(a.cfg.Kafka.Brokers, ", "), "(none)"))
	}
	fmt.Fprintf(out, "Role:           %s\n", presence.Role)
	fmt.Fprintf(out, "Admin:          %s\n", yesNo(presence.Admin))
	fmt.Fprintf(out, "Restaurant:     %s\n", yesNo(presence.Restaurant))
	return nil
}

// runWatch prints session changes seen by this process until interrupted.
func runWatch(ctx context.Context, a *app, args []string, out io.Writer) error {
	if len(args) > 0 {
		return fmt.Errorf("usage: darenow watch")
	}
	events := make(chan domain.Event, 16)
	unsubscribe := a.synchronizer.Subscribe(func(e domain.Event) {
		select {
		case events <- e:
		default:
		}
	})
	defer unsubscribe()
	if err := a.synchronizer.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "👀 Watching session changes (Ctrl+C to stop)")
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-events:
			fmt.Fprintf(out, "%s  %-10s %-6s via %s\n", e.Timestamp.Local().Format(time.TimeOnly), e.Variant, e.Kind, e.Source)
		}
	}
}

func displayName(session *domain.Session) string {
	if session.Variant == domain.VariantRestaurant {
		return domain.RestaurantProfileFrom(session.Profile).DisplayName()
	}
	return fallback(domain.AdminProfileFrom(session.Profile).DisplayName(), "admin")
}

func storeDescription(a *app) string {
	if fs, ok := a.backend.(*infrastructure.FileStore); ok {
		return "file " + fs.Path()
	}
	return a.cfg.Store.Driver
}

func fallback(v, d string) string {
	if v == "" {
		return d
	}
	return v
}

func yesNo(v bool) string {
	if v {
		return "signed in"
	}
	return "-"
}
