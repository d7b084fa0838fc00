package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/term"

	"branch-atm/internal/config"
	"branch-atm/internal/domain"
	"branch-atm/internal/errors"
	"branch-atm/internal/journal"
	"branch-atm/internal/repository"
	"branch-atm/internal/service"
)

func main() {
	// Warnings and errors go to stderr so the interactive menu stays clean.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		slog.Error("Failed to create data directory", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.JournalDir, 0o755); err != nil {
		slog.Error("Failed to create journal directory", "dir", cfg.JournalDir, "error", err)
		os.Exit(1)
	}

	store := repository.NewFileStore(cfg.AccountsPath(), logger)
	jrnl := journal.NewFileJournal(cfg.JournalDir, logger)
	accounts := service.NewAccountService(store, jrnl, logger)
	admin := service.NewAdminService(store, cfg.AdminPasswordHash, logger)

	if cfg.SeedDemoAccounts {
		if _, err := os.Stat(cfg.AccountsPath()); os.IsNotExist(err) {
			if err := admin.SeedDemoAccounts(); err != nil {
				slog.Error("Failed to seed demo accounts", "error", err)
				os.Exit(1)
			}
			fmt.Println("Sample accounts created: [1001/1234], [1002/4321]")
		}
	}

	fmt.Println("Branch ATM")
	in := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("\n1. User Login\n2. Admin\n3. Exit\nChoose: ")
		choice, ok := promptChoice(in)
		if !ok {
			fmt.Println("Bye!")
			return
		}
		switch choice {
		case 1:
			userSession(in, accounts)
		case 2:
			adminSession(in, admin)
		case 3:
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Invalid choice.")
		}
	}
}

func userSession(in *bufio.Reader, svc *service.AccountService) {
	fmt.Print("\nEnter Account Number: ")
	number, ok := promptInt(in)
	if !ok {
		fmt.Println("Invalid input.")
		return
	}
	pin := promptHidden(in, "Enter PIN (hidden): ")

	account, err := svc.Login(number, pin)
	if err != nil {
		fmt.Println(refusal(err))
		return
	}
	fmt.Printf("\nLogin successful! Welcome, %s (A/C %d)\n", account.Name, account.Number)
	userMenu(in, svc, account)
}

func userMenu(in *bufio.Reader, svc *service.AccountService, account *domain.Account) {
	for {
		fmt.Print("\n--- ATM Menu ---\n" +
			"1. Balance Inquiry\n" +
			"2. Deposit\n" +
			"3. Withdraw\n" +
			"4. Change PIN\n" +
			"5. Transfer Funds\n" +
			"6. Mini Statement (last 5)\n" +
			"7. Exit\n" +
			"Enter choice: ")
		choice, ok := promptChoice(in)
		if !ok {
			return
		}
		switch choice {
		case 1:
			fmt.Printf("Current Balance: %s\n", account.Balance.StringFixed(2))
		case 2:
			fmt.Print("Enter deposit amount: ")
			amount, ok := promptAmount(in)
			if !ok {
				fmt.Println("Invalid input.")
				continue
			}
			updated, err := svc.Deposit(account, amount)
			if err != nil {
				fmt.Println(refusal(err))
				continue
			}
			account = updated
			fmt.Printf("Deposit successful. New Balance: %s\n", account.Balance.StringFixed(2))
		case 3:
			fmt.Print("Enter withdrawal amount: ")
			amount, ok := promptAmount(in)
			if !ok {
				fmt.Println("Invalid input.")
				continue
			}
			updated, err := svc.Withdraw(account, amount)
			if err != nil {
				fmt.Println(refusal(err))
				continue
			}
			account = updated
			fmt.Printf("Withdrawal successful. New Balance: %s\n", account.Balance.StringFixed(2))
		case 4:
			oldPin := promptHidden(in, "Enter current PIN (hidden): ")
			newPin := promptHidden(in, "Enter new PIN (hidden): ")
			confirm := promptHidden(in, "Confirm new PIN (hidden): ")
			updated, err := svc.ChangePin(account, oldPin, newPin, confirm)
			if err != nil {
				fmt.Println(refusal(err))
				continue
			}
			account = updated
			fmt.Println("PIN changed successfully.")
		case 5:
			fmt.Print("Enter target Account Number: ")
			target, ok := promptInt(in)
			if !ok {
				fmt.Println("Invalid input.")
				continue
			}
			fmt.Print("Enter amount to transfer: ")
			amount, ok := promptAmount(in)
			if !ok {
				fmt.Println("Invalid input.")
				continue
			}
			updated, _, err := svc.Transfer(account, target, amount)
			if err != nil {
				fmt.Println(refusal(err))
				continue
			}
			account = updated
			fmt.Printf("Transferred %s to A/C %d. New Balance: %s\n",
				amount.StringFixed(2), target, account.Balance.StringFixed(2))
		case 6:
			lines, err := svc.MiniStatement(account.Number, 5)
			if err != nil {
				fmt.Println(refusal(err))
				continue
			}
			if len(lines) == 0 {
				fmt.Println("No transactions yet.")
				continue
			}
			fmt.Printf("\n--- Last %d transactions ---\n", len(lines))
			for _, line := range lines {
				fmt.Println(line)
			}
			fmt.Println("---------------------------")
		case 7:
			fmt.Println("Thank you for using the ATM.")
			return
		default:
			fmt.Println("Invalid choice.")
		}
	}
}

func adminSession(in *bufio.Reader, admin *service.AdminService) {
	password := promptHidden(in, "\n--- Admin Login ---\nPassword (hidden): ")
	ok, err := admin.Authenticate(password)
	if err != nil {
		fmt.Println(refusal(err))
		return
	}
	if !ok {
		fmt.Println("Wrong admin password.")
		return
	}
	fmt.Println("Admin authenticated.")

	for {
		fmt.Print("\n--- Admin Menu ---\n" +
			"1. Create Account\n" +
			"2. List Accounts\n" +
			"3. Unlock Account\n" +
			"4. Reset PIN\n" +
			"5. Exit Admin\n" +
			"Enter choice: ")
		choice, ok := promptChoice(in)
		if !ok {
			return
		}
		switch choice {
		case 1:
			adminCreateAccount(in, admin)
		case 2:
			adminListAccounts(admin)
		case 3:
			fmt.Print("Enter account to unlock: ")
			number, ok := promptInt(in)
			if !ok {
				fmt.Println("Invalid input.")
				continue
			}
			if err := admin.Unlock(number); err != nil {
				fmt.Println(refusal(err))
				continue
			}
			fmt.Printf("Account %d unlocked.\n", number)
		case 4:
			fmt.Print("Enter account to reset PIN: ")
			number, ok := promptInt(in)
			if !ok {
				fmt.Println("Invalid input.")
				continue
			}
			newPin := promptHidden(in, "Enter new PIN (hidden, min 4): ")
			if err := admin.ResetPin(number, newPin); err != nil {
				fmt.Println(refusal(err))
				continue
			}
			fmt.Printf("PIN reset for A/C %d.\n", number)
		case 5:
			return
		default:
			fmt.Println("Invalid choice.")
		}
	}
}

func adminCreateAccount(in *bufio.Reader, admin *service.AdminService) {
	fmt.Print("\n--- Create Account ---\nEnter new Account Number: ")
	number, ok := promptInt(in)
	if !ok {
		fmt.Println("Invalid input.")
		return
	}
	fmt.Print("Enter name: ")
	name := promptLine(in)
	pin := promptHidden(in, "Enter initial PIN (hidden, min 4): ")
	fmt.Print("Enter initial balance: ")
	balance, ok := promptAmount(in)
	if !ok {
		fmt.Println("Invalid input.")
		return
	}

	account, err := admin.CreateAccount(number, name, pin, balance)
	if err != nil {
		fmt.Println(refusal(err))
		return
	}
	fmt.Printf("Account created: %d (%s) with balance %s\n",
		account.Number, account.Name, account.Balance.StringFixed(2))
}

func adminListAccounts(admin *service.AdminService) {
	accounts, err := admin.ListAccounts()
	if err != nil {
		fmt.Println(refusal(err))
		return
	}
	fmt.Println("\n--- All Accounts ---")
	if len(accounts) == 0 {
		fmt.Println("(none)")
		return
	}
	for _, a := range accounts {
		locked := 0
		if a.Locked {
			locked = 1
		}
		fmt.Printf("A/C %-6d | %-20s | Bal: %10s | Locked: %d | Attempts: %d\n",
			a.Number, a.Name, a.Balance.StringFixed(2), locked, a.FailedAttempts)
	}
}

// refusal turns an engine error into a user-facing message, hiding internal
// detail for anything outside the known taxonomy.
func refusal(err error) string {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Operation failed."
}

func promptLine(in *bufio.Reader) string {
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimRight(line, "\r\n")
}

// promptChoice reads a menu selection. ok is false once stdin is closed so
// menu loops terminate instead of spinning on EOF.
func promptChoice(in *bufio.Reader) (int, bool) {
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return 0, false
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(line))
	if convErr != nil {
		return 0, true
	}
	return n, true
}

func promptInt(in *bufio.Reader) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(promptLine(in)), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func promptAmount(in *bufio.Reader) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.TrimSpace(promptLine(in)))
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// promptHidden reads a secret without echo when stdin is a terminal and
// falls back to a plain line read when it is not (tests, piped input).
func promptHidden(in *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return strings.TrimSpace(promptLine(in))
	}
	secret, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(secret)
}
