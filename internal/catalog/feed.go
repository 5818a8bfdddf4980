package catalog

// Feed is the top-level RSS document returned by the catalog. Only the
// fields consumed by the extractor are mapped; everything else in the
// response is ignored by the decoder.
type Feed struct {
	Channel Channel `xml:"channel"`
}

// Channel holds the result items plus the upstream total count.
type Channel struct {
	TotalResults int    `xml:"totalResults"`
	Items        []Item `xml:"item"`
}

// Item is one raw catalog entry. Repeated elements decode into slices in
// document order, which the extractor relies on.
type Item struct {
	Titles       []Node      `xml:"http://purl.org/dc/elements/1.1/ title"`
	Link         string      `xml:"link"`
	Creators     []Node      `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Publishers   []Node      `xml:"http://purl.org/dc/elements/1.1/ publisher"`
	Identifiers  []TypedNode `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	Subjects     []TypedNode `xml:"http://purl.org/dc/elements/1.1/ subject"`
	Issued       []Node      `xml:"http://purl.org/dc/terms/ issued"`
	Languages    []Node      `xml:"http://purl.org/dc/elements/1.1/ language"`
	Descriptions []Node      `xml:"description"`
}

// Node is a scalar-like element carrying only character data.
type Node struct {
	Text string `xml:",chardata"`
}

// TypedNode is an element carrying an xsi:type tag alongside its text,
// used for identifier and subject lists.
type TypedNode struct {
	Type string `xml:"http://www.w3.org/2001/XMLSchema-instance type,attr"`
	Text string `xml:",chardata"`
}
