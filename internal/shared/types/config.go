package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Locale  string        `json:"locale" yaml:"locale" toml:"locale"`
	Dir     string        `json:"dir" yaml:"dir" toml:"dir"`
	Storage StorageConfig `json:"storage" yaml:"storage" toml:"storage"`
	QR      QRConfig      `json:"qr" yaml:"qr" toml:"qr"`
	Server  ServerConfig  `json:"server" yaml:"server" toml:"server"`
}

// StorageConfig selects where generated artifacts are written.
type StorageConfig struct {
	Backend  string `json:"backend" yaml:"backend" toml:"backend"` // local (default) or s3
	Bucket   string `json:"bucket" yaml:"bucket" toml:"bucket"`
	Region   string `json:"region" yaml:"region" toml:"region"`
	Prefix   string `json:"prefix" yaml:"prefix" toml:"prefix"`
	Endpoint string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	// Static credentials; empty means the default AWS credential chain.
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id" toml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key" toml:"secret_access_key"`
	ForcePathStyle  bool   `json:"force_path_style" yaml:"force_path_style" toml:"force_path_style"`
}

// QRConfig holds defaults applied to QR requests that leave a field empty.
type QRConfig struct {
	Width            int    `json:"width" yaml:"width" toml:"width"`
	ErrorCorrection  string `json:"error_correction" yaml:"error_correction" toml:"error_correction"`
	Foreground       string `json:"foreground" yaml:"foreground" toml:"foreground"`
	Background       string `json:"background" yaml:"background" toml:"background"`
	LogoTimeout      string `json:"logo_timeout" yaml:"logo_timeout" toml:"logo_timeout"`
	BatchConcurrency int    `json:"batch_concurrency" yaml:"batch_concurrency" toml:"batch_concurrency"`
	// RemoteLogosOnly refuses local logo paths and private network hosts.
	// The serve command always turns it on.
	RemoteLogosOnly bool `json:"remote_logos_only" yaml:"remote_logos_only" toml:"remote_logos_only"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" toml:"addr"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Locale:  "pt-BR",
		Storage: StorageConfig{Backend: "local"},
		QR: QRConfig{
			Width:           300,
			ErrorCorrection: "M",
			Foreground:      "#000000",
			Background:      "#FFFFFF",
			LogoTimeout:     "10s",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// ApplyDefaults fills every empty field from DefaultConfig.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.Locale == "" {
		c.Locale = d.Locale
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	if c.QR.Width == 0 {
		c.QR.Width = d.QR.Width
	}
	if c.QR.ErrorCorrection == "" {
		c.QR.ErrorCorrection = d.QR.ErrorCorrection
	}
	if c.QR.Foreground == "" {
		c.QR.Foreground = d.QR.Foreground
	}
	if c.QR.Background == "" {
		c.QR.Background = d.QR.Background
	}
	if c.QR.LogoTimeout == "" {
		c.QR.LogoTimeout = d.QR.LogoTimeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
}
