package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"brewbox/internal/model"
	"brewbox/internal/service"

	"github.com/rs/zerolog"
)

const (
	brewSteps     = 5
	cancelCommand = "cancel"
)

// Options tunes the shell's presentation.
type Options struct {
	// BrewDelay is the pause between brewing dots. Zero disables it.
	BrewDelay time.Duration
}

// Shell is the interactive front panel of the machine. It reads one command
// or answer per line from in and writes prompts to out.
type Shell struct {
	service   service.MachineService
	scanner   *bufio.Scanner
	out       io.Writer
	brewDelay time.Duration
	logger    zerolog.Logger
}

// New creates a shell driving svc.
func New(svc service.MachineService, in io.Reader, out io.Writer, opts Options, logger zerolog.Logger) *Shell {
	return &Shell{
		service:   svc,
		scanner:   bufio.NewScanner(in),
		out:       out,
		brewDelay: opts.BrewDelay,
		logger:    logger.With().Str("component", "console").Logger(),
	}
}

// Run serves customers until the machine is switched off or input ends.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		status := s.service.MaintenanceStatus(ctx)
		if !status.Operational {
			err = s.maintenance(ctx, status)
		} else {
			err = s.start(ctx)
		}

		s.settle(ctx)

		switch {
		case errors.Is(err, errSwitchedOff):
			return nil
		case errors.Is(err, io.EOF):
			s.println("\nShutting down...")
			return nil
		case err != nil:
			return err
		}
	}
}

var errSwitchedOff = errors.New("switched off")

func (s *Shell) maintenance(ctx context.Context, status model.MaintenanceStatus) error {
	names := make([]string, len(status.Shortages))
	for i, kind := range status.Shortages {
		names[i] = strings.ToUpper(kind.DisplayName())
	}
	s.printf("\nMACHINE IN MAINTENANCE: OUT OF %s\n", strings.Join(names, ", "))
	s.println("Type 'refill' to restock or 'off' to shut down.")

	command, err := s.prompt("Command: ")
	if err != nil {
		return err
	}

	switch strings.ToLower(command) {
	case "refill":
		return s.refill(ctx)
	case "off":
		s.println("Shutting down...")
		return errSwitchedOff
	default:
		s.println("Invalid command.")
		return nil
	}
}

func (s *Shell) start(ctx context.Context) error {
	command, err := s.prompt("Press Enter to start, 'report' for stock levels or 'off' to quit: ")
	if err != nil {
		return err
	}

	switch strings.ToLower(command) {
	case "":
		return s.takeOrder(ctx)
	case "refill":
		return s.refill(ctx)
	case "report":
		s.report(ctx)
		return nil
	case "off":
		s.println("Bye! Have a nice day!")
		return errSwitchedOff
	default:
		s.println("Unknown command.")
		return nil
	}
}

func (s *Shell) takeOrder(ctx context.Context) error {
	s.println("\nWelcome to the brewbox coffee machine!")
	entries := s.service.ListProducts(ctx)
	s.menu(entries)

	product, err := s.chooseProduct(ctx)
	if err != nil || product == "" {
		return err
	}

	ok, err := s.chooseSize(ctx, product, entries)
	if err != nil || !ok {
		return err
	}
	s.println("All resources available!")

	sticker, err := s.askYesNo("Would you like a sticker with your name on it? (yes/no): ")
	if err != nil {
		return err
	}
	order, err := s.service.ChooseAddOn(ctx, sticker)
	if err != nil {
		s.println(err.Error())
		return nil
	}

	paid, err := s.pay(ctx, order.Total)
	if err != nil || !paid {
		return err
	}

	if err := s.brew(ctx); err != nil {
		return err
	}

	receipt, err := s.addSugar(ctx)
	if err != nil || receipt == nil {
		return err
	}

	switch receipt.SugarPackets {
	case 0:
		s.println("No sugar added.")
	case 1:
		s.println("1 sugar packet added!")
	default:
		s.printf("%d sugar packets added!\n", receipt.SugarPackets)
	}
	s.printf("Your %s %s is ready. Enjoy!\n", strings.ToLower(receipt.Size), receipt.Product)
	s.report(ctx)

	return nil
}

func (s *Shell) menu(entries []model.MenuEntry) {
	s.println("\n----- MENU -----")
	product := ""
	for _, entry := range entries {
		if entry.Product != product {
			product = entry.Product
			s.printf("\n%s:\n", product)
		}
		s.printf("  - %s: %s\n", entry.Size, entry.Price)
	}
}

// chooseProduct returns the selected product, or "" when the order cannot
// start.
func (s *Shell) chooseProduct(ctx context.Context) (string, error) {
	for {
		name, err := s.prompt("\nPlease enter your drink: ")
		if err != nil {
			return "", err
		}

		order, err := s.service.SelectProduct(ctx, name)
		if err == nil {
			return order.Product, nil
		}
		if errors.Is(err, model.ErrInvalidSelection) {
			s.println("Invalid drink. Please choose again.")
			continue
		}

		s.println(err.Error())
		return "", nil
	}
}

// chooseSize reports whether a size was selected and stock covers it.
func (s *Shell) chooseSize(ctx context.Context, product string, entries []model.MenuEntry) (bool, error) {
	var sizes []string
	for _, entry := range entries {
		if entry.Product == product {
			sizes = append(sizes, entry.Size)
		}
	}
	question := fmt.Sprintf("What size for your %s? (%s): ", product, strings.Join(sizes, "/"))

	for {
		size, err := s.prompt(question)
		if err != nil {
			return false, err
		}

		_, err = s.service.SelectSize(ctx, size)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, model.ErrInvalidSelection) {
			s.println("Invalid size. Please choose again.")
			continue
		}

		var stockErr *model.StockError
		if errors.As(err, &stockErr) {
			for _, shortage := range stockErr.Shortages {
				s.println(shortage.String())
			}
			s.println("Cannot process order due to insufficient resources.")
			return false, nil
		}

		s.println(err.Error())
		return false, nil
	}
}

// pay collects coins until the total is covered. It reports false when the
// order ended without payment.
func (s *Shell) pay(ctx context.Context, total model.Cents) (bool, error) {
	s.printf("\n----- PAYMENT -----\nTotal due: %s (type '%s' to abort)\n\n", total, cancelCommand)

	for {
		batch, err := s.readCoins()
		if errors.Is(err, errCancelled) {
			refund, err := s.service.Cancel(ctx)
			if err != nil {
				return false, err
			}
			s.logger.Info().Str("refund", refund.String()).Msg("order cancelled by customer")
			s.printf("Order cancelled. Refunding %s.\n", refund)
			return false, nil
		}
		if err != nil {
			return false, err
		}

		inserted, _ := batch.Total()
		s.printf("\nTotal inserted: %s\n\n", inserted)

		status, err := s.service.SubmitTender(ctx, batch)
		if err != nil {
			var abortErr *service.AbortError
			if errors.As(err, &abortErr) {
				s.println(abortErr.Err.Error())
				s.printf("Refunding %s.\n", abortErr.Refund)
				return false, nil
			}
			s.println(err.Error())
			continue
		}

		if status.Complete {
			s.println("Payment received!")
			if status.Change > 0 {
				s.printf("Returning change: %s\n", status.Change)
			}
			return true, nil
		}
		s.printf("You still owe %s. Please insert more coins.\n", status.Remaining)
	}
}

var errCancelled = errors.New("payment cancelled")

// readCoins asks for every denomination once. Blank answers count as zero.
func (s *Shell) readCoins() (model.CoinTender, error) {
	batch := make(model.CoinTender, len(model.Denominations))
	for _, denom := range model.Denominations {
		for {
			raw, err := s.prompt(fmt.Sprintf("How many %s? ", denom))
			if err != nil {
				return nil, err
			}
			if strings.EqualFold(raw, cancelCommand) {
				return nil, errCancelled
			}

			count, err := parseCount(raw)
			if err != nil {
				s.println("Invalid number. Try again.")
				continue
			}
			if count < 0 {
				s.println("Please enter a non-negative number")
				continue
			}

			batch[denom] = count
			break
		}
	}
	return batch, nil
}

func (s *Shell) brew(ctx context.Context) error {
	s.printf("Preparing your coffee")
	for i := 0; i < brewSteps; i++ {
		s.printf(".")
		if s.brewDelay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			s.println("")
			return ctx.Err()
		case <-time.After(s.brewDelay):
		}
	}
	s.println("")
	return nil
}

func (s *Shell) addSugar(ctx context.Context) (*model.Receipt, error) {
	limit := s.service.MaxSugarPackets()

	for {
		raw, err := s.prompt("How many sugar packets? (Enter 0 for none): ")
		if err != nil {
			return nil, err
		}

		count, err := parseCount(raw)
		if err != nil {
			s.println("Please enter a valid number.")
			continue
		}
		if count < 0 {
			s.println("Please enter a positive number.")
			continue
		}
		if count > limit {
			s.printf("You can only take up to %d sugar packets at once\n", limit)
			continue
		}
		if left := s.service.InventoryReport(ctx).Quantity(model.SugarPacket); count > left {
			s.printf("Not enough sugar! Only %d packets left.\n", left)
			continue
		}

		receipt, err := s.service.SubmitAddOnRequest(ctx, count)
		if err != nil {
			s.println(err.Error())
			if errors.Is(err, model.ErrInvalidInput) {
				continue
			}
			return nil, nil
		}
		return receipt, nil
	}
}

func (s *Shell) report(ctx context.Context) {
	s.println("\nMachine resources left:")
	for _, item := range s.service.InventoryReport(ctx).Resources {
		s.printf(" - %s: %s\n", item.Name, item.Kind.Format(item.Quantity))
	}
}

func (s *Shell) refill(ctx context.Context) error {
	s.println("\n--- REFILLING RESOURCES ---")
	for _, item := range s.service.InventoryReport(ctx).Resources {
		question := fmt.Sprintf("How much %s to add? (current: %s): ", item.Name, item.Kind.Format(item.Quantity))

		var amount int64
		for {
			raw, err := s.prompt(question)
			if err != nil {
				return err
			}
			amount, err = parseCount(raw)
			if err == nil && amount >= 0 {
				break
			}
			s.println("Invalid input. Enter a non-negative integer.")
		}
		if amount == 0 {
			continue
		}

		quantity, err := s.service.Refill(ctx, item.Kind, amount)
		if err != nil {
			s.println(err.Error())
			continue
		}
		s.printf("Added %s of %s. New amount: %s\n", item.Kind.Format(amount), item.Name, item.Kind.Format(quantity))
	}
	return nil
}

// settle closes an order left open by an interrupted dialogue. A dispensed
// order is completed without sugar, anything earlier is refunded.
func (s *Shell) settle(ctx context.Context) {
	order, ok := s.service.CurrentOrder()
	if !ok {
		return
	}

	ctx = context.WithoutCancel(ctx)
	if order.State == model.StateFulfilled {
		if _, err := s.service.SubmitAddOnRequest(ctx, 0); err != nil {
			s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to close dispensed order")
		}
		return
	}

	refund, err := s.service.Cancel(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to cancel open order")
		return
	}
	s.logger.Warn().Str("order_id", order.ID.String()).Str("refund", refund.String()).Msg("open order cancelled on shutdown")
}

// prompt writes question and returns the next trimmed input line.
func (s *Shell) prompt(question string) (string, error) {
	s.printf("%s", question)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.scanner.Text()), nil
}

func (s *Shell) askYesNo(question string) (bool, error) {
	for {
		answer, err := s.prompt(question)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
		s.println("Invalid input. Please type 'yes' or 'no'.")
	}
}

func (s *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

// parseCount reads a whole number, treating blank input as zero.
func parseCount(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
