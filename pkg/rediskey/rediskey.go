package rediskey

import (
	"fmt"
	"strconv"
)

// Sequence counters live under "seq:".
const (
	SequencePrefix    = "seq"
	ApplicationPrefix = "seq:application"
	ReceiptPrefix     = "seq:receipt"
)

func NamespaceKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

// ApplicationSeqKey returns "seq:application:{year}"
func ApplicationSeqKey(year int) string {
	return NamespaceKey(ApplicationPrefix, strconv.Itoa(year))
}

// ReceiptSeqKey returns "seq:receipt:{year}"
func ReceiptSeqKey(year int) string {
	return NamespaceKey(ReceiptPrefix, strconv.Itoa(year))
}

// DailySeqKey returns "seq:{prefix}:{day}"
func DailySeqKey(prefix, day string) string {
	return NamespaceKey(SequencePrefix, NamespaceKey(prefix, day))
}
