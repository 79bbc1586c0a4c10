package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/adamwoolhether/geminer/history"
	"github.com/adamwoolhether/geminer/response"
	"github.com/adamwoolhether/geminer/tofu"
)

var (
	styleSuccess  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	stylePending  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleFailure  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleCert     = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	styleMuted    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleTableHdr = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleTableRow = lipgloss.NewStyle().Padding(0, 1)
)

// result is a fetched response in output form.
type result struct {
	URL      string        `json:"url" yaml:"url"`
	Status   int           `json:"status" yaml:"status"`
	Name     string        `json:"status_text" yaml:"status_text"`
	Meta     string        `json:"meta" yaml:"meta"`
	Body     string        `json:"body,omitempty" yaml:"body,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`

	group response.Group
}

func newResult(url string, resp response.Response, took time.Duration) result {
	r := result{
		URL:      url,
		Status:   int(resp.Status()),
		Name:     resp.Status().String(),
		Meta:     resp.Meta(),
		Duration: took,
		group:    resp.Status().Group(),
	}
	if s, ok := resp.(response.Success); ok {
		r.Body = s.Body
	}
	return r
}

func formatOutput(r result, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(r)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "body":
		return r.Body, nil

	case "text":
		fallthrough
	default:
		var sb strings.Builder

		sb.WriteString(statusStyle(r.group).Render(r.Name))
		if r.Meta != "" {
			sb.WriteString(" " + r.Meta)
		}
		sb.WriteString("\n")
		sb.WriteString(styleMuted.Render(fmt.Sprintf("%s in %s", r.URL, r.Duration.Round(time.Millisecond))))
		sb.WriteString("\n")

		if r.group == response.GroupRedirect {
			sb.WriteString("redirect not followed: " + r.Meta + "\n")
		}
		if r.Body != "" {
			sb.WriteString("\n" + r.Body)
			if !strings.HasSuffix(r.Body, "\n") {
				sb.WriteString("\n")
			}
		}

		return sb.String(), nil
	}
}

func formatHosts(hosts []tofu.Host, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(hosts, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(hosts)
		if err != nil {
			return "", err
		}
		return string(data), nil

	default:
		rows := make([][]string, 0, len(hosts))
		for _, h := range hosts {
			rows = append(rows, []string{h.Name, h.Fingerprint})
		}
		return renderTable([]string{"HOST", "SHA-256"}, rows), nil
	}
}

func formatHistory(entries []history.Entry, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(entries)
		if err != nil {
			return "", err
		}
		return string(data), nil

	default:
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			status := e.Status.String()
			if e.Error != "" {
				status = "error: " + e.Error
			}
			rows = append(rows, []string{
				e.FetchedAt.Local().Format(time.DateTime),
				e.URL,
				status,
				strconv.Itoa(e.BodySize),
			})
		}
		return renderTable([]string{"FETCHED", "URL", "STATUS", "BYTES"}, rows), nil
	}
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleMuted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHdr
			}
			return styleTableRow
		}).
		Headers(headers...).
		Rows(rows...)

	return t.String() + "\n"
}

func statusStyle(g response.Group) lipgloss.Style {
	switch g {
	case response.GroupSuccess:
		return styleSuccess
	case response.GroupInput, response.GroupRedirect:
		return stylePending
	case response.GroupCertificateRequired:
		return styleCert
	default:
		return styleFailure
	}
}
