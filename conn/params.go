package conn

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultFetchSize is the number of rows fetched from Oracle per round trip
// when the connect string does not override it.
const DefaultFetchSize = 10000

// Parameters describes one Oracle attach target. Exactly one of Service,
// SID or Alias is authoritative when building the connect target; a
// non-empty Alias overrides Host/Port/Service entirely.
type Parameters struct {
	Host     string
	Port     int
	Service  string
	SID      string
	Alias    string
	User     string
	Password string

	// Wallet is an optional wallet directory for TCPS connections.
	Wallet string

	// Schema overrides the default schema (otherwise the user name,
	// uppercased, is used).
	Schema string

	// ReadOnly rejects DDL and DML at the catalog layer. It is an
	// attach-time option, not part of the connect string.
	ReadOnly bool

	// FetchSize is the row prefetch count for streaming queries.
	FetchSize int
}

// ParseConnectionString parses an attach path in one of three grammars:
//
//   - key/value: "host=db1 port=1521 service=ORCL user=scott password=tiger"
//   - easy connect: "//db1:1521/ORCL user=scott password=tiger"
//   - tns alias: "PRODDB user=scott password=tiger"
//
// A leading "//" always selects the easy-connect grammar. In the alias and
// easy-connect forms the remaining tokens are key/value pairs. Recognized
// key synonyms: service/service_name, user/username, wallet/wallet_location.
func ParseConnectionString(s string) (Parameters, error) {
	p := Parameters{
		Host:      "localhost",
		Port:      1521,
		FetchSize: DefaultFetchSize,
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return p, fmt.Errorf("empty connection string")
	}

	fields := splitOptions(s)
	first := fields[0]
	switch {
	case strings.HasPrefix(first, "//"):
		if err := parseEasyConnect(first, &p); err != nil {
			return p, err
		}
		fields = fields[1:]
	case !strings.Contains(first, "="):
		p.Alias = first
		fields = fields[1:]
	}

	for _, kv := range fields {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return p, fmt.Errorf("malformed connection option %q", kv)
		}
		if err := p.set(strings.ToLower(key), value); err != nil {
			return p, err
		}
	}

	if p.User == "" {
		return p, fmt.Errorf("connection string is missing user")
	}
	return p, nil
}

// splitOptions tokenizes a connection string on whitespace. A single-quoted
// span keeps its spaces and loses the quotes, so password='a b' becomes one
// password=a b token. An unterminated quote runs to the end of the string.
func splitOptions(s string) []string {
	var tokens []string
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\'':
			i++
			for i < len(s) && s[i] != '\'' {
				b.WriteByte(s[i])
				i++
			}
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			if b.Len() > 0 {
				tokens = append(tokens, b.String())
				b.Reset()
			}
		default:
			b.WriteByte(c)
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

// parseEasyConnect handles "//host[:port][/service]".
func parseEasyConnect(s string, p *Parameters) error {
	s = strings.TrimPrefix(s, "//")
	hostPort := s
	if i := strings.IndexByte(s, '/'); i >= 0 {
		hostPort = s[:i]
		p.Service = s[i+1:]
	}
	host, port, ok := strings.Cut(hostPort, ":")
	if host == "" {
		return fmt.Errorf("easy-connect string %q has no host", "//"+s)
	}
	p.Host = host
	if ok {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 {
			return fmt.Errorf("easy-connect string has invalid port %q", port)
		}
		p.Port = n
	}
	return nil
}

func (p *Parameters) set(key, value string) error {
	switch key {
	case "host":
		p.Host = value
	case "port":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid port %q", value)
		}
		p.Port = n
	case "service", "service_name":
		p.Service = value
	case "sid":
		p.SID = value
	case "tns", "alias":
		p.Alias = value
	case "user", "username":
		p.User = value
	case "password":
		p.Password = value
	case "schema":
		p.Schema = value
	case "wallet", "wallet_location":
		p.Wallet = value
	case "fetch_size":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid fetch_size %q", value)
		}
		p.FetchSize = n
	default:
		// Unrecognized options are ignored so connection strings written
		// for other Oracle tooling still attach.
	}
	return nil
}

// ConnectString renders the go-ora connection URL for these parameters.
// Alias form wins over host/port/service; SID connects through a full
// DESCRIPTION block since the URL path component always means service name.
func (p Parameters) ConnectString() string {
	u := url.URL{
		Scheme: "oracle",
		User:   url.UserPassword(p.User, p.Password),
	}
	q := url.Values{}
	if p.Wallet != "" {
		q.Set("WALLET", p.Wallet)
		q.Set("SSL", "enable")
	}

	switch {
	case p.Alias != "":
		u.Host = p.Alias
	case p.SID != "":
		u.Host = fmt.Sprintf("%s:%d", p.Host, p.Port)
		q.Set("connStr", fmt.Sprintf(
			"(DESCRIPTION=(ADDRESS=(PROTOCOL=TCP)(HOST=%s)(PORT=%d))(CONNECT_DATA=(SID=%s)))",
			p.Host, p.Port, p.SID))
	default:
		u.Host = fmt.Sprintf("%s:%d", p.Host, p.Port)
		u.Path = "/" + p.Service
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// EffectiveSchema is the default schema for the attach: the explicit schema
// override when present, otherwise the user name. Oracle folds unquoted
// identifiers to upper case, so the result is always uppercased.
func (p Parameters) EffectiveSchema() string {
	if p.Schema != "" {
		return strings.ToUpper(p.Schema)
	}
	return strings.ToUpper(p.User)
}
