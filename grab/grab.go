package grab

import (
	"bufio"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"git.sr.ht/~nullevoid/gridpoints/configuration"
	"git.sr.ht/~nullevoid/gridpoints/roster"
)

// Podium is the top-3 for one segment of a race weekend, resolved to
// canonical driver slugs.
type Podium struct {
	P1 string
	P2 string
	P3 string
}

// Result is what the upstream feed delivers for one round: the main-race
// podium and, when the weekend ran one, the sprint podium.
type Result struct {
	Main      Podium
	Sprint    Podium
	HasSprint bool
}

// feedPayload matches the slice of the Ergast-style response we care
// about: the first race's classified finishers with driver identity.
type feedPayload struct {
	MRData struct {
		RaceTable struct {
			Races []struct {
				Results       []feedRow `json:"Results"`
				SprintResults []feedRow `json:"SprintResults"`
			} `json:"Races"`
		} `json:"RaceTable"`
	} `json:"MRData"`
}

type feedRow struct {
	Position string `json:"position"`
	Driver   struct {
		Code       string `json:"code"`
		FamilyName string `json:"familyName"`
	} `json:"Driver"`
}

// Results fetches the official top-3 for a season/round from the feed,
// main race and sprint. A 404-style miss on the sprint endpoint, or an
// empty sprint race table, means the weekend ran no sprint.
func Results(
	ctx context.Context, season, round int64,
	cfg *configuration.Config, res *roster.Resolver,
) (*Result, error) {
	out := &Result{}

	raw, err := download(ctx, fmt.Sprintf(cfg.Feed.ResultURLTmpl, season, round))
	if err != nil {
		return nil, fmt.Errorf("fetching race result: %w", err)
	}
	main, ok, err := parsePodium(raw, false, res)
	if err != nil {
		return nil, fmt.Errorf("parsing race result: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("feed has no result for season %d round %d", season, round)
	}
	out.Main = main

	raw, err = download(ctx, fmt.Sprintf(cfg.Feed.SprintURLTmpl, season, round))
	if err != nil {
		// The sprint endpoint is best-effort: a weekend without a sprint
		// is not an error.
		return out, nil
	}
	sprint, ok, err := parsePodium(raw, true, res)
	if err != nil {
		return nil, fmt.Errorf("parsing sprint result: %w", err)
	}
	if ok {
		out.Sprint = sprint
		out.HasSprint = true
	}

	return out, nil
}

// parsePodium pulls the top-3 out of a feed payload and resolves each
// driver to a canonical slug. ok is false when the payload carries no
// race (sprint endpoint on a non-sprint weekend).
func parsePodium(raw []byte, sprint bool, res *roster.Resolver) (Podium, bool, error) {
	var payload feedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Podium{}, false, err
	}

	races := payload.MRData.RaceTable.Races
	if len(races) == 0 {
		return Podium{}, false, nil
	}

	rows := races[0].Results
	if sprint {
		rows = races[0].SprintResults
	}
	if len(rows) < 3 {
		return Podium{}, false, fmt.Errorf("feed returned %d classified rows, need 3", len(rows))
	}

	var podium Podium
	slots := [3]*string{&podium.P1, &podium.P2, &podium.P3}
	for i, slot := range slots {
		name := rows[i].Driver.FamilyName
		if name == "" {
			name = rows[i].Driver.Code
		}
		slug := res.Resolve(name)
		if slug == "" {
			return Podium{}, false, fmt.Errorf("unresolvable driver in position %d", i+1)
		}
		*slot = slug
	}

	return podium, true, nil
}

// download fetches rawUrl and returns the response body.
func download(ctx context.Context, rawUrl string) ([]byte, error) {
	u, err := url.Parse(rawUrl)
	if err != nil {
		return nil, err
	}

	host := u.Hostname()
	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}

	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	// If HTTPS, wrap with TLS using system CAs.
	var rw io.ReadWriter = conn
	if u.Scheme == "https" {
		pool, err := x509.SystemCertPool()
		if err != nil {
			return nil, fmt.Errorf("failed to load system cert pool: %w", err)
		}
		tlsConn := tls.Client(conn, &tls.Config{
			ServerName: host, // SNI + verify
			RootCAs:    pool,
		})

		if err := tlsConn.HandshakeContext(ctx); err != nil {
			return nil, fmt.Errorf("tls handshake: %w", err)
		}

		rw = tlsConn
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	req.URL.Scheme = ""
	req.URL.Host = ""
	req.Header = http.Header{
		"User-Agent":      []string{"Wget/1.25.0"}, // fake it until you make it
		"Accept":          []string{"application/json"},
		"Accept-Encoding": []string{"identity"},
		"Connection":      []string{"Keep-Alive"},
	}
	req.Host = host

	bw := bufio.NewWriter(rw)
	if err := req.Write(bw); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("flush request: %w", err)
	}

	// read the response
	br := bufio.NewReader(rw)
	resp, err := http.ReadResponse(br, req)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		// drain to avoid leaking the connection if re-used
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("bad status code %d for %s", resp.StatusCode, string(b))
	}

	return io.ReadAll(resp.Body)
}
