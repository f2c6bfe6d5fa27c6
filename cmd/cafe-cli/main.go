// cafe-cli is a staff console for the café API: it lists orders, advances
// them through the pickup workflow and can run a small checkout benchmark.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
)

type client struct {
	baseURL string
	userID  string
	name    string
	role    string
}

func newClient() *client {
	return &client{
		baseURL: strings.TrimRight(getenv("CAFE_BASE_URL", "http://localhost:8080"), "/"),
		userID:  getenv("CAFE_USER_ID", "staff-1"),
		name:    getenv("CAFE_USER_NAME", "Staff"),
		role:    getenv("CAFE_USER_ROLE", "staff"),
	}
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", c.userID)
	req.Header.Set("X-User-Name", c.name)
	req.Header.Set("X-User-Role", c.role)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

func (c *client) orders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := c.do(ctx, http.MethodGet, "/orders", nil, &out)
	return out, err
}

func (c *client) advance(ctx context.Context, ord domain.Order) (domain.Order, error) {
	next, ok := ord.Status.Next()
	if !ok {
		return domain.Order{}, fmt.Errorf("order %s is already %s", ord.ID, ord.Status)
	}
	var out domain.Order
	err := c.do(ctx, http.MethodPatch, "/orders/"+ord.ID, map[string]any{"status": string(next)}, &out)
	return out, err
}

type model struct {
	cli      *client
	orders   []domain.Order
	selected int
	status   string
	busy     bool
}

type ordersMsg []domain.Order
type actionMsg string
type errMsg struct{ err error }

func initialModel(cli *client) model {
	return model{cli: cli, status: "Loading orders..."}
}

func (m model) Init() tea.Cmd {
	return refreshCmd(m.cli)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up":
			if m.selected > 0 {
				m.selected--
			}
		case "down":
			if m.selected < len(m.orders)-1 {
				m.selected++
			}
		case "r":
			m.status = "Refreshing..."
			return m, refreshCmd(m.cli)
		case "enter":
			if m.busy || len(m.orders) == 0 {
				return m, nil
			}
			m.busy = true
			m.status = "Advancing..."
			return m, advanceCmd(m.cli, m.orders[m.selected])
		}
	case ordersMsg:
		m.orders = msg
		if m.selected >= len(m.orders) {
			m.selected = 0
		}
		m.status = fmt.Sprintf("%d orders", len(m.orders))
	case actionMsg:
		m.busy = false
		m.status = string(msg)
		return m, refreshCmd(m.cli)
	case errMsg:
		m.busy = false
		m.status = "Error: " + msg.err.Error()
	}
	return m, nil
}

func (m model) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "WolfCafe+ staff console")
	fmt.Fprintln(b, "")
	if len(m.orders) == 0 {
		fmt.Fprintln(b, "  (no orders)")
	}
	for i, ord := range m.orders {
		marker := " "
		if i == m.selected {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %s  %-11s  $%s  %s\n", marker, shortID(ord.ID), ord.Status, ord.Total.StringFixed(2), ord.UserName)
	}
	fmt.Fprintln(b, "")
	fmt.Fprintf(b, "Status: %s\n", m.status)
	fmt.Fprintln(b, "\nControls: up/down select, enter advance status, r refresh, q quit")
	return b.String()
}

func refreshCmd(cli *client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		orders, err := cli.orders(ctx)
		if err != nil {
			return errMsg{err}
		}
		return ordersMsg(orders)
	}
}

func advanceCmd(cli *client, ord domain.Order) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		updated, err := cli.advance(ctx, ord)
		if err != nil {
			return errMsg{err}
		}
		return actionMsg(fmt.Sprintf("Order %s -> %s", shortID(updated.ID), updated.Status))
	}
}

// runBenchmark drives add-to-cart plus checkout loops against the API and
// reports throughput, mirroring a burst of kiosk traffic.
func runBenchmark(cli *client, itemID string, duration time.Duration, vus int) string {
	var mu sync.Mutex
	var total time.Duration
	var count, errors int

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < vus; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			user := fmt.Sprintf("bench-%d", n)
			for {
				select {
				case <-ctx.Done():
					return
				default:
					start := time.Now()
					err := benchCheckout(cli, user, itemID)
					mu.Lock()
					if err != nil {
						errors++
					} else {
						count++
						total += time.Since(start)
					}
					mu.Unlock()
				}
			}
		}(i)
	}
	wg.Wait()

	avg := time.Duration(0)
	if count > 0 {
		avg = total / time.Duration(count)
	}
	return fmt.Sprintf("count=%d errors=%d avg=%s throughput=%.2f orders/s", count, errors, avg, float64(count)/duration.Seconds())
}

func benchCheckout(cli *client, userID, itemID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	bench := &client{baseURL: cli.baseURL, userID: userID, name: userID, role: "customer"}
	if err := bench.do(ctx, http.MethodPost, "/cart", map[string]any{"menu_item_id": itemID, "quantity": 1}, nil); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, bench.baseURL+"/orders", strings.NewReader(`{"tax_rate":"0.08","tip":"0"}`))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", userID)
	req.Header.Set("Idempotency-Key", uuid.NewString())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func main() {
	bench := flag.Bool("bench", false, "run a checkout benchmark instead of the console")
	benchItem := flag.String("item", "", "menu item id used by the benchmark")
	benchFor := flag.Duration("for", 5*time.Second, "benchmark duration")
	benchVUs := flag.Int("vus", 5, "concurrent benchmark users")
	flag.Parse()

	cli := newClient()
	if *bench {
		if *benchItem == "" {
			fmt.Println("error: -item is required with -bench")
			os.Exit(1)
		}
		fmt.Println(runBenchmark(cli, *benchItem, *benchFor, *benchVUs))
		return
	}

	p := tea.NewProgram(initialModel(cli))
	if _, err := p.Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
