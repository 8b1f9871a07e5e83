package xbfvalue

import "fmt"

// Stringify renders any decoded value (bool/int32/float32/string/Thickness/
// GridLength) as XAML-attribute text, used wherever the node stream folds a
// decoded value into a string field (x:Name, x:Uid, and the key read by
// keyaddobj).
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "True"
		}
		return "False"
	case int32:
		return fmt.Sprintf("%d", t)
	case float32:
		return formatFloat(t)
	case Thickness:
		return t.String()
	case GridLength:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
