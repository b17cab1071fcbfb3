package library

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/papershelf/internal/store"
)

// Kind identifies one of the six classification vocabularies.
type Kind int

const (
	KindAuthor Kind = iota
	KindKeyword
	KindSubject
	KindTag
	KindUniversity
	KindCompany
)

var kindNames = [...]string{"author", "keyword", "subject", "tag", "university", "company"}

// Kinds returns every kind in display order.
func Kinds() []Kind {
	return []Kind{KindAuthor, KindKeyword, KindSubject, KindTag, KindUniversity, KindCompany}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) valid() bool { return k >= 0 && int(k) < len(kindNames) }

// table returns the storage descriptor for k.
func (k Kind) table() store.EntityTable { return store.EntityTables[k] }

// ParseKind accepts singular or plural kind names, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if s == name || s == store.EntityTables[i].Table {
			return Kind(i), nil
		}
	}
	return 0, invalid("kind", fmt.Sprintf("unknown kind %q (want one of: %s)", s, strings.Join(kindNames[:], ", ")))
}
