package config

const (
	defaultConfigPath            = "~/.config/workbench/config.toml"
	defaultDataDir               = "~/.local/share/workbench"
	defaultLogDir                = "~/.local/share/workbench/logs"
	defaultVideoDir              = "~/.local/share/workbench/video"
	defaultPassportDir           = "~/.local/share/workbench/unit-passports"
	defaultLabelDir              = "~/.local/share/workbench/labels"
	defaultAPIBind               = "127.0.0.1:5000"
	defaultWorkbenchNumber       = 1
	defaultLanguage              = "en"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultMinRecordSeconds      = 3
	defaultGatewayURI            = "http://127.0.0.1:8082"
	defaultGatewayTimeoutSeconds = 60
	defaultLedgerAttempts        = 3
	defaultPaperAspectRatio      = "29:62"
	defaultSecurityTagText       = "SEALED"
	defaultRFIDReader            = "rfid_reader"
	defaultBarcodeReader         = "barcode_reader"
	defaultNotifyRequestTimeout  = 10
	defaultNotifyMinLevel        = "error"
	ledgerSeedSecretPath         = "/run/secrets/ledger_account_seed"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:     defaultDataDir,
			LogDir:      defaultLogDir,
			VideoDir:    defaultVideoDir,
			PassportDir: defaultPassportDir,
			LabelDir:    defaultLabelDir,
			APIBind:     defaultAPIBind,
		},
		Workbench: Workbench{
			Number:   defaultWorkbenchNumber,
			Language: defaultLanguage,
		},
		Camera: Camera{
			MinRecordSeconds: defaultMinRecordSeconds,
		},
		IPFSGateway: IPFSGateway{
			URI:            defaultGatewayURI,
			TimeoutSeconds: defaultGatewayTimeoutSeconds,
		},
		Ledger: Ledger{
			Attempts: defaultLedgerAttempts,
		},
		Printer: Printer{
			PaperAspectRatio: defaultPaperAspectRatio,
			PrintBarcode:     true,
			PrintQR:          true,
			SecurityTagText:  defaultSecurityTagText,
		},
		HIDDevices: HIDDevices{
			RFIDReader:    defaultRFIDReader,
			BarcodeReader: defaultBarcodeReader,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			MinLevel:       defaultNotifyMinLevel,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
