// Package shell implements the interactive front-desk menu. It owns stdout;
// diagnostics go through slog so they can be routed away from the prompt.
package shell

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/erazemk/recepcija/internal/auth"
	"github.com/erazemk/recepcija/internal/export"
	"github.com/erazemk/recepcija/internal/model"
	"github.com/erazemk/recepcija/internal/report"
	"github.com/erazemk/recepcija/internal/store"
)

// errInterrupted signals that input ended (EOF) mid-prompt.
var errInterrupted = errors.New("input closed")

// Shell drives the interactive menu over a line-based reader and writer.
type Shell struct {
	DB        *sql.DB
	ExportDir string

	// Now is the clock used for reports and exports. Defaults to time.Now.
	Now func() time.Time

	in  *bufio.Scanner
	out io.Writer
}

// session carries the authenticated user through the menu handlers.
type session struct {
	user *model.User
}

func (s *session) admin() bool {
	return model.RoleAtLeast(s.user.Role, model.RoleAdmin)
}

// New creates a shell reading from in and writing to out.
func New(db *sql.DB, in io.Reader, out io.Writer, exportDir string) *Shell {
	return &Shell{
		DB:        db,
		ExportDir: exportDir,
		Now:       time.Now,
		in:        bufio.NewScanner(in),
		out:       out,
	}
}

// Run authenticates once and then loops over the menu until the user exits
// or input ends. Domain errors are printed and never terminate the loop.
func (s *Shell) Run(ctx context.Context) error {
	sess, err := s.login(ctx)
	if err != nil {
		if errors.Is(err, errInterrupted) {
			return nil
		}
		return err
	}

	fmt.Fprintf(s.out, "\nWelcome, %s (%s).\n", sess.user.Username, sess.user.Role)

	for {
		s.printMenu(sess)

		choice, err := s.readLine("> ")
		if err != nil {
			if errors.Is(err, errInterrupted) {
				return nil
			}
			return err
		}

		if err := s.dispatch(ctx, sess, strings.TrimSpace(choice)); err != nil {
			if errors.Is(err, errInterrupted) {
				return nil
			}
			if errors.Is(err, errExit) {
				fmt.Fprintln(s.out, "Goodbye.")
				return nil
			}
			// Domain and store errors surface as a message; the session
			// continues.
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

// errExit signals a clean exit request from the menu.
var errExit = errors.New("exit")

func (s *Shell) dispatch(ctx context.Context, sess *session, choice string) error {
	switch choice {
	case "1":
		return s.recordSale(ctx, sess)
	case "2":
		return s.viewInventory(ctx)
	case "3":
		return s.restockItem(ctx)
	case "4":
		return s.changePrice(ctx)
	case "5":
		return s.dailyReport(ctx)
	case "6":
		if !sess.admin() {
			return fmt.Errorf("unknown choice %q", choice)
		}
		return s.resetDay(ctx, sess)
	case "7":
		if !sess.admin() {
			return fmt.Errorf("unknown choice %q", choice)
		}
		return s.addUser(ctx, sess)
	case "8":
		if !sess.admin() {
			return fmt.Errorf("unknown choice %q", choice)
		}
		return s.changePassword(ctx, sess)
	case "0":
		return errExit
	default:
		return fmt.Errorf("unknown choice %q", choice)
	}
}

func (s *Shell) printMenu(sess *session) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "1) Record a sale")
	fmt.Fprintln(s.out, "2) View inventory")
	fmt.Fprintln(s.out, "3) Restock item")
	fmt.Fprintln(s.out, "4) Change item price")
	fmt.Fprintln(s.out, "5) Daily sales report")
	if sess.admin() {
		fmt.Fprintln(s.out, "6) Reset today's sales")
		fmt.Fprintln(s.out, "7) Add user")
		fmt.Fprintln(s.out, "8) Change user password")
	}
	fmt.Fprintln(s.out, "0) Exit")
}

// login prompts for credentials until they validate or input ends. Unknown
// usernames and wrong passwords get the same message.
func (s *Shell) login(ctx context.Context) (*session, error) {
	for {
		username, err := s.readLine("Username: ")
		if err != nil {
			return nil, err
		}
		password, err := s.readLine("Password: ")
		if err != nil {
			return nil, err
		}

		user, err := auth.Login(ctx, s.DB, strings.TrimSpace(username), password)
		if err != nil {
			if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidCredentials) {
				fmt.Fprintln(s.out, "Invalid username or password.")
				continue
			}
			return nil, err
		}

		slog.Info("user logged in", "username", user.Username, "role", user.Role)
		return &session{user: user}, nil
	}
}

func (s *Shell) recordSale(ctx context.Context, sess *session) error {
	if err := s.viewInventory(ctx); err != nil {
		return err
	}

	itemID, err := s.readInt("Item ID: ")
	if err != nil {
		return err
	}
	quantity, err := s.readInt("Quantity: ")
	if err != nil {
		return err
	}

	sale, err := store.RecordSale(ctx, s.DB, int64(itemID), quantity, sess.user.ID)
	if err != nil {
		return err
	}

	slog.Info("sale recorded",
		"reference", sale.Reference, "item", sale.ItemName,
		"quantity", sale.Quantity, "total", model.FormatCents(sale.TotalCents))

	fmt.Fprintf(s.out, "Sold %d x %s for %s (receipt %s).\n",
		sale.Quantity, sale.ItemName, model.FormatCents(sale.TotalCents), sale.Reference)
	return nil
}

// lowStockThreshold is the stock level at or below which an item is flagged.
const lowStockThreshold = 5

func (s *Shell) viewInventory(ctx context.Context) error {
	items, err := store.ListItems(ctx, s.DB)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(s.out, "No items in inventory.")
		return nil
	}

	low := 0
	w := tabwriter.NewWriter(s.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tSTATUS")
	for _, item := range items {
		status := ""
		switch {
		case item.Quantity == 0:
			status = "out of stock"
			low++
		case item.Quantity <= lowStockThreshold:
			status = "low stock"
			low++
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			item.ID, item.Name, item.Category, item.Price(), item.Quantity, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if low > 0 {
		fmt.Fprintf(s.out, "Warning: %d item(s) need restocking.\n", low)
	}
	return nil
}

func (s *Shell) restockItem(ctx context.Context) error {
	itemID, err := s.readInt("Item ID: ")
	if err != nil {
		return err
	}
	quantity, err := s.readInt("Quantity to add: ")
	if err != nil {
		return err
	}
	if quantity <= 0 {
		return store.ErrInvalidQuantity
	}

	item, err := store.AdjustStock(ctx, s.DB, int64(itemID), quantity)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "%s now has %d in stock.\n", item.Name, item.Quantity)
	return nil
}

func (s *Shell) changePrice(ctx context.Context) error {
	itemID, err := s.readInt("Item ID: ")
	if err != nil {
		return err
	}
	priceStr, err := s.readLine("New price: ")
	if err != nil {
		return err
	}

	cents, err := model.ParseCents(strings.TrimSpace(priceStr))
	if err != nil {
		return err
	}

	item, err := store.UpdatePrice(ctx, s.DB, int64(itemID), cents)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "%s now costs %s.\n", item.Name, item.Price())
	return nil
}

func (s *Shell) dailyReport(ctx context.Context) error {
	day := s.Now().UTC()
	summary, err := report.Daily(ctx, s.DB, day)
	if err != nil {
		return err
	}

	if len(summary.Lines) == 0 {
		fmt.Fprintf(s.out, "No sales recorded on %s.\n", day.Format(time.DateOnly))
		return nil
	}

	fmt.Fprintf(s.out, "Sales for %s:\n", day.Format(time.DateOnly))
	w := tabwriter.NewWriter(s.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tCATEGORY\tUNITS\tREVENUE")
	for _, line := range summary.Lines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", line.Name, line.Category, line.Units, line.Revenue())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Total: %s (%d units)\n", summary.Total(), summary.UnitsSold)

	answer, err := s.readLine("Export to CSV? [y/N] ")
	if err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(answer), "y") {
		path, err := export.Day(ctx, s.DB, s.ExportDir, day, s.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Exported to %s.\n", path)
	}
	return nil
}

func (s *Shell) resetDay(ctx context.Context, sess *session) error {
	day := s.Now().UTC()

	answer, err := s.readLine(fmt.Sprintf("Export and clear all sales for %s? [y/N] ", day.Format(time.DateOnly)))
	if err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(answer), "y") {
		fmt.Fprintln(s.out, "Reset cancelled.")
		return nil
	}

	path, err := export.ResetDay(ctx, s.DB, s.ExportDir, day, s.Now())
	if err != nil {
		return err
	}

	slog.Info("daily sales reset", "day", day.Format(time.DateOnly), "export", path, "by", sess.user.Username)
	fmt.Fprintf(s.out, "Sales archived to %s and cleared.\n", path)
	return nil
}

func (s *Shell) addUser(ctx context.Context, sess *session) error {
	username, err := s.readLine("New username: ")
	if err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	password, err := s.readLine("Password: ")
	if err != nil {
		return err
	}
	if err := model.ValidatePassword(password); err != nil {
		return err
	}

	role, err := s.readLine("Role (admin/staff): ")
	if err != nil {
		return err
	}
	role = strings.TrimSpace(role)
	if !model.ValidRole(role) {
		return fmt.Errorf("unknown role %q", role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user, err := store.CreateUser(ctx, s.DB, username, hash, role)
	if err != nil {
		return err
	}

	slog.Info("user created", "username", user.Username, "role", user.Role, "by", sess.user.Username)
	fmt.Fprintf(s.out, "User %s (%s) created.\n", user.Username, user.Role)
	return nil
}

func (s *Shell) changePassword(ctx context.Context, sess *session) error {
	users, err := store.ListUsers(ctx, s.DB)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(s.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tROLE")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\n", u.ID, u.Username, u.Role)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	username, err := s.readLine("Username: ")
	if err != nil {
		return err
	}
	user, err := store.GetUserByUsername(ctx, s.DB, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("unknown user %q", strings.TrimSpace(username))
	}

	password, err := s.readLine("New password: ")
	if err != nil {
		return err
	}
	if err := model.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := store.UpdateUserPassword(ctx, s.DB, user.ID, hash); err != nil {
		return err
	}

	slog.Info("password changed", "username", user.Username, "by", sess.user.Username)
	fmt.Fprintf(s.out, "Password updated for %s.\n", user.Username)
	return nil
}

// readLine prints a prompt and reads one line. Returns errInterrupted on EOF.
func (s *Shell) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", errInterrupted
	}
	return s.in.Text(), nil
}

// readInt prompts until the user enters a valid integer.
func (s *Shell) readInt(prompt string) (int, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(s.out, "Please enter a number.")
			continue
		}
		return n, nil
	}
}
