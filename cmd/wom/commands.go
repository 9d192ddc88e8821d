package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/MrJamesThe3rd/wom/internal/database"
	"github.com/MrJamesThe3rd/wom/internal/deposit"
	depositStore "github.com/MrJamesThe3rd/wom/internal/deposit/store"
	"github.com/MrJamesThe3rd/wom/internal/idempotency"
	"github.com/MrJamesThe3rd/wom/internal/importer"
	"github.com/MrJamesThe3rd/wom/internal/settlement"
	settlementStore "github.com/MrJamesThe3rd/wom/internal/settlement/store"
)

func runMigrate(ctx context.Context, a *app, _ []string) error {
	if err := database.EnsureSchema(ctx, a.db); err != nil {
		return err
	}

	slog.Info("schema is up to date")

	return nil
}

func runImportManifest(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("import-manifest", flag.ContinueOnError)
	supplierID := fs.Int64("supplier", 0, "supplier id")
	depositName := fs.String("deposit", deposit.Unassigned, "supplier deposit name; empty for unassigned stock")
	path := fs.String("file", "", "manifest CSV file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *supplierID <= 0 || *path == "" {
		return errors.New("-supplier and -file are required")
	}

	f, err := os.Open(*path)
	if err != nil {
		return fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	svc := importer.NewService(deposit.NewService(depositStore.New(a.db)))

	books, err := svc.Import(ctx, importer.FormatCSV, *supplierID, *depositName, f)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BOOK\tQUANTITY\tDESCRIPTION")

	for _, b := range books {
		desc := ""
		if b.Description != nil {
			desc = *b.Description
		}

		fmt.Fprintf(w, "%d\t%d\t%s\n", b.BookID, b.Quantity, desc)
	}

	return w.Flush()
}

func runOverdue(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("overdue", flag.ContinueOnError)
	sellerID := fs.Int64("seller", 0, "seller id")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *sellerID <= 0 {
		return errors.New("-seller is required")
	}

	svc := settlement.NewService(settlementStore.New(a.db),
		settlement.WithPaymentTerms(a.cfg.Settlement.PaymentTerms))

	lines, err := svc.ListOverdue(ctx, *sellerID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SUPPLIER\tCREATED\tBOOK\tFROM\tTO\tQUANTITY\tSTATUS\tDUE")

	for _, l := range lines {
		k := l.Key
		fmt.Fprintf(w, "%d\t%s\t%d\t%q\t%s\t%d\t%s\t%s\n",
			k.SupplierID, k.CreatedAt.Format(time.RFC3339Nano), k.BookID,
			k.SupplierDepositID, k.SellerDepositID, l.Quantity, l.Status, l.DueAt.Format(time.DateOnly))
	}

	return w.Flush()
}

func runApplyEvent(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("apply-event", flag.ContinueOnError)
	eventID := fs.String("id", "", "processor event id")
	supplierID := fs.Int64("supplier", 0, "supplier id")
	sellerID := fs.Int64("seller", 0, "seller id")
	created := fs.String("created", "", "transaction creation time, RFC 3339")
	status := fs.String("status", "", "new transaction status")

	if err := fs.Parse(args); err != nil {
		return err
	}

	createdAt, err := time.Parse(time.RFC3339Nano, *created)
	if err != nil {
		return fmt.Errorf("parsing -created: %w", err)
	}

	opts := []settlement.Option{settlement.WithPaymentTerms(a.cfg.Settlement.PaymentTerms)}

	if a.cfg.Redis.Addr != "" {
		client, err := idempotency.Connect(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer client.Close()

		opts = append(opts, settlement.WithDeduper(idempotency.NewRedisDeduper(client, a.cfg.Redis.EventTTL)))
	}

	svc := settlement.NewService(settlementStore.New(a.db), opts...)

	applied, err := svc.ApplyEvent(ctx, settlement.Event{
		ID: *eventID,
		Key: settlement.TransactionKey{
			SupplierID: *supplierID,
			SellerID:   *sellerID,
			CreatedAt:  createdAt.UTC(),
		},
		Status: settlement.Status(*status),
	})
	if err != nil {
		return err
	}

	fmt.Printf("applied=%t\n", applied)

	return nil
}
