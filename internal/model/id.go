package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// idNamespace scopes every identifier produced by the engine.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("structuresentinel/analysis"))

// StableID returns a name-based UUID for the given parts. The same parts always
// yield the same id, so repeated analyses of one candle slice serialize identically.
func StableID(parts ...any) string {
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = fmt.Sprint(p)
	}
	return uuid.NewSHA1(idNamespace, []byte(strings.Join(names, "|"))).String()
}
