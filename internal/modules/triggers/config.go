package triggers

// Config holds the trigger module configuration.
type Config struct {
	Dir       string  `env:"TRIGGERS_DIR"        envDefault:"./config/triggers"`
	SendRate  float64 `env:"TRIGGERS_SEND_RATE"  envDefault:"5"`
	SendBurst int     `env:"TRIGGERS_SEND_BURST" envDefault:"10"`
}
