package repository

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"sectoralpha/internal/domain"

	"golang.org/x/net/html"
)

const sp500TableUrl = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

// ConstituentsRepository returns the index constituent table: one row of
// {symbol, security name, sector label} per listed company.
type ConstituentsRepository interface {
	List() ([]domain.Constituent, error)
}

type wikipediaConstituentsHandler struct {
	HttpClient *http.Client
	Url        string
}

func NewConstituentsRepository(httpClient *http.Client) ConstituentsRepository {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return wikipediaConstituentsHandler{
		HttpClient: httpClient,
		Url:        sp500TableUrl,
	}
}

var footnoteSuffix = regexp.MustCompile(`\s+\*.*$`)

// CleanSymbol strips footnote markers and normalizes share-class separators
// ("BRK.B" -> "BRK-B") to match the price provider's ticker convention.
func CleanSymbol(raw string) string {
	s := footnoteSuffix.ReplaceAllString(strings.TrimSpace(raw), "")
	return strings.ReplaceAll(s, ".", "-")
}

func (h wikipediaConstituentsHandler) List() ([]domain.Constituent, error) {
	req, err := http.NewRequest(http.MethodGet, h.Url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	response, err := h.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
	}
	if response.StatusCode != 200 {
		return nil, fmt.Errorf("constituent table fetch failed with status code %d", response.StatusCode)
	}

	return ParseConstituentTable(strings.NewReader(string(responseBytes)))
}

// ParseConstituentTable extracts the first wikitable from the page and maps
// its rows onto constituents. The sector column is located by substring so
// renames like "GICS Sector" still resolve.
func ParseConstituentTable(r io.Reader) ([]domain.Constituent, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse constituent page: %w", err)
	}

	table := findFirstTable(doc, "wikitable")
	if table == nil {
		return nil, fmt.Errorf("no constituent table found in page")
	}

	rows := collectRows(table)
	if len(rows) < 2 {
		return nil, fmt.Errorf("constituent table has no data rows")
	}

	header := cellTexts(rows[0])
	symbolCol, securityCol, sectorCol := -1, -1, -1
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		switch {
		case strings.EqualFold(name, "Symbol"):
			symbolCol = i
		case strings.EqualFold(name, "Security"):
			securityCol = i
		case sectorCol == -1 && strings.Contains(name, "Sector"):
			sectorCol = i
		}
	}
	if symbolCol == -1 || securityCol == -1 || sectorCol == -1 {
		return nil, fmt.Errorf("constituent table is missing expected columns, got %v", header)
	}

	out := []domain.Constituent{}
	for _, row := range rows[1:] {
		cells := cellTexts(row)
		if len(cells) <= symbolCol || len(cells) <= securityCol || len(cells) <= sectorCol {
			continue
		}
		symbol := CleanSymbol(cells[symbolCol])
		if symbol == "" {
			continue
		}
		out = append(out, domain.Constituent{
			Symbol:   symbol,
			Security: strings.TrimSpace(cells[securityCol]),
			Sector:   strings.TrimSpace(cells[sectorCol]),
		})
	}

	return out, nil
}

func findFirstTable(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" {
		for _, attr := range n.Attr {
			if attr.Key == "class" && strings.Contains(attr.Val, class) {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if table := findFirstTable(c, class); table != nil {
			return table
		}
	}
	return nil
}

func collectRows(table *html.Node) []*html.Node {
	rows := []*html.Node{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			rows = append(rows, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return rows
}

func cellTexts(row *html.Node) []string {
	cells := []string{}
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, nodeText(c))
		}
	}
	return cells
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
