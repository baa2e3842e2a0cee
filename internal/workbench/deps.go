package workbench

import (
	"context"
	"log/slog"
	"time"

	"workbench/internal/config"
	"workbench/internal/i18n"
	"workbench/internal/notify"
	"workbench/internal/recording"
	"workbench/internal/statesignal"
	"workbench/internal/unit"
)

// Store is the persistence the workbench needs.
type Store interface {
	GetUnitByInternalID(ctx context.Context, internalID string) (*unit.Unit, error)
	GetEmployeeByCardID(ctx context.Context, cardID string) (unit.Employee, error)
	GetSchema(ctx context.Context, schemaID string) (unit.Schema, error)
	PushUnit(ctx context.Context, u *unit.Unit, includeComponents bool) error
}

// Recorder captures stage videos.
type Recorder interface {
	Start(ctx context.Context) (*recording.Record, error)
	Stop(ctx context.Context, rec *recording.Record) (string, error)
}

// Publisher publishes files and returns their content id and public link.
type Publisher interface {
	Publish(ctx context.Context, path, cardID string) (string, string, error)
}

// Printer prints an image file.
type Printer interface {
	PrintImage(ctx context.Context, path, annotation string) error
}

// Labels renders label images and returns their paths.
type Labels interface {
	Barcode(code string) (string, error)
	QR(link string) (string, error)
	SealTag(text string, withDate bool) (string, error)
}

// Ledger anchors published content ids without blocking the caller.
type Ledger interface {
	Schedule(content, unitInternalID string)
}

// Metrics counts production events and surfaced errors.
type Metrics interface {
	ProductionEvent(eventType, employeeName, unitID, unitType string)
	Error(kind string)
}

// Deps are the collaborators of a Workbench. Store, Bus, Signal, and
// Translator are required.
type Deps struct {
	Store      Store
	Bus        *notify.Bus
	Signal     *statesignal.Signal
	Translator *i18n.Translator
	Logger     *slog.Logger

	Recorder  Recorder
	Publisher Publisher
	Printer   Printer
	Labels    Labels
	Ledger    Ledger
	Metrics   Metrics

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Options are the station settings that shape operation behaviour.
type Options struct {
	Number                  int
	PassportDir             string
	PrintBarcode            bool
	PrintQR                 bool
	PrintQROnlyForComposite bool
	PrintSecurityTag        bool
	SecurityTagText         string
	SecurityTagAddTimestamp bool
	RFIDReader              string
	BarcodeReader           string
}

// OptionsFromConfig derives Options from the daemon configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Number:                  cfg.Workbench.Number,
		PassportDir:             cfg.Paths.PassportDir,
		PrintBarcode:            cfg.Printer.PrintBarcode,
		PrintQR:                 cfg.Printer.PrintQR,
		PrintQROnlyForComposite: cfg.Printer.PrintQROnlyForComposite,
		PrintSecurityTag:        cfg.Printer.PrintSecurityTag,
		SecurityTagText:         cfg.Printer.SecurityTagText,
		SecurityTagAddTimestamp: cfg.Printer.SecurityTagAddTimestamp,
		RFIDReader:              cfg.HIDDevices.RFIDReader,
		BarcodeReader:           cfg.HIDDevices.BarcodeReader,
	}
}
