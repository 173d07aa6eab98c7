package pgdock

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"
	"gopkg.in/yaml.v3"
)

// Options hold the parameters used to establish server sessions.
// The zero value connects to localhost:5432 as the postgres user.
type Options struct {
	// URL, when set, is used verbatim as the connection string and the
	// field-level parameters below are ignored, except ConnectTimeout,
	// which still applies.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	Host     string `json:"host,omitempty" yaml:"host,omitempty"`
	Port     uint16 `json:"port,omitempty" yaml:"port,omitempty"`
	User     string `json:"user,omitempty" yaml:"user,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Database string `json:"database,omitempty" yaml:"database,omitempty"`

	// SSLMode maps to the sslmode connection parameter, for example
	// "disable" or "require". Empty leaves the driver default in place.
	SSLMode string `json:"sslmode,omitempty" yaml:"sslmode,omitempty"`

	// ConnectTimeout bounds session establishment, rounded up to whole
	// seconds on the wire. It applies even when URL is set, overriding any
	// connect_timeout parameter the URL carries. Zero means no limit beyond
	// what the connection string itself asks for.
	ConnectTimeout time.Duration `json:"connect_timeout,omitempty" yaml:"connect_timeout,omitempty"`

	// RuntimeParams are extra server parameters applied at session start,
	// such as application_name or search_path.
	RuntimeParams map[string]string `json:"runtime_params,omitempty" yaml:"runtime_params,omitempty"`
}

// Validate checks o for values no connection string can carry.
func (o Options) Validate() error {
	if o.URL != "" {
		if _, err := url.Parse(o.URL); err != nil {
			return fmt.Errorf("invalid connection URL: %w", err)
		}
	}
	if o.ConnectTimeout < 0 {
		return fmt.Errorf("connect timeout cannot be negative: given %v", o.ConnectTimeout)
	}
	for k := range o.RuntimeParams {
		if k == "" {
			return fmt.Errorf("runtime parameter name cannot be empty")
		}
	}
	return nil
}

// ConnString renders o as a postgres:// URL understood by the driver.
// Unset fields fall back to localhost, port 5432, the postgres user, and a
// database named after the user.
func (o Options) ConnString() string {
	if o.URL != "" {
		return o.URL
	}
	host := o.Host
	if host == "" {
		host = "localhost"
	}
	port := o.Port
	if port == 0 {
		port = 5432
	}
	user := o.User
	if user == "" {
		user = "postgres"
	}
	database := o.Database
	if database == "" {
		database = user
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, strconv.Itoa(int(port))),
		Path:   "/" + database,
	}
	if o.Password != "" {
		u.User = url.UserPassword(user, o.Password)
	} else {
		u.User = url.User(user)
	}

	q := url.Values{}
	if o.SSLMode != "" {
		q.Set("sslmode", o.SSLMode)
	}
	if o.ConnectTimeout > 0 {
		secs := (o.ConnectTimeout + time.Second - 1) / time.Second
		q.Set("connect_timeout", strconv.FormatInt(int64(secs), 10))
	}
	for k, v := range o.RuntimeParams {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// connConfig resolves o into the driver configuration sessions dial with.
// A nonzero ConnectTimeout lands in the config directly, so it holds for
// URL targets too, where the rendered connection string cannot carry it.
func (o Options) connConfig() (*pgconn.Config, error) {
	conf, err := pgconn.ParseConfig(o.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if o.ConnectTimeout > 0 {
		conf.ConnectTimeout = o.ConnectTimeout
	}
	return conf, nil
}

// OptionsFromEnv builds Options from the standard PostgreSQL environment
// variables (PGHOST, PGPORT, PGUSER, PGPASSWORD, PGDATABASE, PGSSLMODE),
// with DATABASE_URL taking precedence over the individual variables.
// Unparsable PGPORT values are ignored.
func OptionsFromEnv() Options {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return Options{URL: u}
	}
	o := Options{
		Host:     os.Getenv("PGHOST"),
		User:     os.Getenv("PGUSER"),
		Password: os.Getenv("PGPASSWORD"),
		Database: os.Getenv("PGDATABASE"),
		SSLMode:  os.Getenv("PGSSLMODE"),
	}
	if s := os.Getenv("PGPORT"); s != "" {
		if p, err := strconv.ParseUint(s, 10, 16); err == nil {
			o.Port = uint16(p)
		}
	}
	return o
}

// LoadOptions reads Options from a YAML or JSON file, chosen by extension.
func LoadOptions(path string) (Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read options file: %w", err)
	}
	var o Options
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &o); err != nil {
			return Options{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(raw, &o); err != nil {
			return Options{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return Options{}, fmt.Errorf("unsupported options file extension %q", ext)
	}
	if err := o.Validate(); err != nil {
		return Options{}, fmt.Errorf("invalid options in %s: %w", path, err)
	}
	return o, nil
}
