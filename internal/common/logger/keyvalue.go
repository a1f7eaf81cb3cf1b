// internal/common/logger/keyvalue.go
package logger

import "fmt"

// KeyValueAdapter exposes a Logger through the alternating key/value style
// used by schedulers such as robfig/cron. Info entries are logged at debug.
type KeyValueAdapter struct {
	l Logger
}

func NewKeyValueAdapter(l Logger) KeyValueAdapter {
	return KeyValueAdapter{l: l}
}

func (a KeyValueAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.l.Debug(msg, KeyValuesToFields(keysAndValues))
}

func (a KeyValueAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := KeyValuesToFields(keysAndValues)
	if err != nil {
		fields["error"] = err.Error()
	}
	a.l.Error(msg, fields)
}

// KeyValuesToFields pairs up keys and values. A trailing key without a value
// is kept under "!BADKEY".
func KeyValuesToFields(kv []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	if len(kv)%2 == 1 {
		fields["!BADKEY"] = kv[len(kv)-1]
	}
	return fields
}
