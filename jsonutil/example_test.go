package jsonutil_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/drblury/restweaver/jsonutil"
)

func Example() {
	type item struct {
		Name  string `json:"name"`
		Stock int    `json:"stock"`
	}

	widget := item{Name: "widget", Stock: 12}

	data, _ := jsonutil.Marshal(widget)
	fmt.Println(string(data))

	var decoded item
	_ = jsonutil.Unmarshal(data, &decoded)
	fmt.Println(decoded.Stock)

	buf := &bytes.Buffer{}
	_ = jsonutil.Encode(buf, widget)

	var streamed item
	_ = jsonutil.Decode(buf, &streamed)
	fmt.Println(streamed.Name)

	// Output:
	// {"name":"widget","stock":12}
	// 12
	// widget
}

func ExampleMarshalIndent() {
	type link struct {
		Rel  string `json:"rel"`
		Href string `json:"href"`
	}

	payload := link{Rel: "self", Href: "/shop/items/1"}

	data, err := jsonutil.MarshalIndent(payload, "", "  ")
	if err != nil {
		fmt.Println("marshal error:", err)
		return
	}

	fmt.Println(strings.TrimSpace(string(data)))

	// Output:
	// {
	//   "rel": "self",
	//   "href": "/shop/items/1"
	// }
}
