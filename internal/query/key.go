package query

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	KindList   = "list"
	KindDetail = "detail"
	KindItem   = "item"
)

// Key identifies one cached read. The first segment is the resource root;
// invalidating a root expires every key that starts with it.
type Key []string

func (k Key) Root() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

func (k Key) String() string {
	parts := make([]string, len(k))
	for i, s := range k {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

func ListKey(resource, lang string, page, pageSize int, search string) Key {
	return Key{resource, KindList, lang, strconv.Itoa(page), strconv.Itoa(pageSize), search}
}

func DetailKey(resource, id, lang string) Key {
	return Key{resource, KindDetail, id, lang}
}

// ItemKey is for resources that have a single record, such as static pages.
func ItemKey(resource, lang string) Key {
	return Key{resource, KindItem, lang}
}
