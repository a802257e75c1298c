package darwin

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// plainText flattens an NRCC XHTML message to a single line of text.
func plainText(xhtml string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(xhtml))
	if err != nil {
		return "", fmt.Errorf("nrcc html parse failed: %w", err)
	}

	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find("p, div, li").AfterHtml(" ")

	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
