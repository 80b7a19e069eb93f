// Package offering pulls tradeable syndicate offerings out of a wiki page.
package offering

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrContainerNotFound means the page no longer matches the expected
// template. The run cannot continue without it.
var ErrContainerNotFound = eris.New("offering: offerings container not found")

// anchorID is the id of the heading anchor above the offering list.
const anchorID = "Offerings"

// Extractor finds, filters and normalizes offering names.
type Extractor struct {
	keywords []string
	aliases  map[string]string
	dedupe   bool
	lower    cases.Caser
}

// New creates an Extractor using the given rules.
func New(rules Rules) *Extractor {
	lower := cases.Lower(language.Und)
	keywords := make([]string, 0, len(rules.Keywords))
	for _, k := range rules.Keywords {
		if k = strings.TrimSpace(lower.String(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	aliases := make(map[string]string, len(rules.Aliases))
	for k, v := range rules.Aliases {
		aliases[k] = v
	}
	return &Extractor{
		keywords: keywords,
		aliases:  aliases,
		dedupe:   rules.Dedupe,
		lower:    lower,
	}
}

// Extract returns the tradeable offering names in document order.
func (e *Extractor) Extract(page string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, eris.Wrap(err, "offering: parse html")
	}

	container := findContainer(doc)
	if container.Length() == 0 {
		return nil, ErrContainerNotFound
	}

	var names []string
	seen := make(map[string]bool)
	container.Children().Each(func(i int, entry *goquery.Selection) {
		raw, ok := entryText(entry)
		if !ok {
			zap.L().Debug("offering: entry without name", zap.Int("index", i))
			return
		}
		if kw, hit := e.untradeable(raw); hit {
			zap.L().Debug("offering: skipping untradeable",
				zap.String("offering", raw),
				zap.String("keyword", kw),
			)
			return
		}

		name := e.Normalize(raw)
		if name == "" {
			return
		}
		if e.dedupe {
			if seen[name] {
				return
			}
			seen[name] = true
		}
		names = append(names, name)
	})

	return names, nil
}

// findContainer walks the fixed path of the wiki's offering template:
// anchor, its heading, the toggle control after it, the block after that,
// and finally the block's first element child. Whitespace between elements
// is ignored.
//
// TODO: replace the hop sequence with a selector lookup once the template
// exposes a stable class for the offering list.
func findContainer(doc *goquery.Document) *goquery.Selection {
	heading := doc.Find("#" + anchorID).First().Parent()
	toggle := heading.Next()
	block := toggle.Next()
	return block.Children().First()
}

// entryText descends second-to-last child, first link, first text.
func entryText(entry *goquery.Selection) (string, bool) {
	contents := entry.Contents()
	if contents.Length() < 2 {
		return "", false
	}
	link := contents.Eq(contents.Length() - 2).Find("a").First()
	if link.Length() == 0 {
		return "", false
	}
	return firstText(link.Nodes[0])
}

func firstText(n *html.Node) (string, bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if strings.TrimSpace(c.Data) != "" {
				return c.Data, true
			}
			continue
		}
		if c.Type == html.ElementNode {
			if text, ok := firstText(c); ok {
				return text, true
			}
		}
	}
	return "", false
}

func (e *Extractor) untradeable(name string) (string, bool) {
	lowered := e.lower.String(name)
	for _, k := range e.keywords {
		if strings.Contains(lowered, k) {
			return k, true
		}
	}
	return "", false
}

// Normalize trims name, drops any parenthetical qualifier and applies the
// alias table.
func (e *Extractor) Normalize(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	if alias, ok := e.aliases[name]; ok {
		return alias
	}
	return name
}
