package xbfschema

import "github.com/chausner/XbfAnalyzer/xbferrors"

func tableError(format string, args ...any) error {
	return xbferrors.New(xbferrors.UnexpectedByte).Detail(format, args...).Build()
}
