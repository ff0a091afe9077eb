package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWhitespace(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: "  LEC  \n  Students enrolled: 40 ", expected: "LEC Students enrolled: 40"},
		{in: "a\r\nb\rc\nd", expected: "a b c d"},
		{in: "", expected: ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, NormalizeWhitespace(test.in))
	}
}

func TestNewlinesToSpaces(t *testing.T) {
	require.Equal(t, "one two  three\tfour five", NewlinesToSpaces("one\r\ntwo \nthree\tfour\rfive"))
}

func TestTextAndAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div id="pagination">
			<a href="search?page=0">1</a>
			<a href="search?page=1"> <b>2</b>
			</a>
		</div>
		<p class="x">Hello <i>there</i></p>
	`))
	require.NoError(t, err)

	require.Equal(t, "Hello there", Text(doc.Find("p.x")))

	anchors := GetAnchors(context.Background(), doc.Find("#pagination a"))
	require.Equal(t, []Anchor{
		{Name: "1", Href: "search?page=0"},
		{Name: "2", Href: "search?page=1"},
	}, anchors)
}
