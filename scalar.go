package yamlbind

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reoring/yamlbind/i18n"
)

// decimalFloat is the accepted lexical form for non-special float scalars.
var decimalFloat = regexp.MustCompile(`^[-+]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][-+]?[0-9]+)?$`)

func (s *Scalar) formatError(expected, id string, data map[string]string) *ScalarFormatError {
	if data == nil {
		data = map[string]string{}
	}
	data["value"] = s.content
	return &ScalarFormatError{Loc: s.loc, Value: s.content, Expected: expected, Msg: i18n.T(id, data)}
}

func (s *Scalar) numberError(kind string) *ScalarFormatError {
	return s.formatError(kind, i18n.MsgInvalidNumber, map[string]string{"kind": kind})
}

// integerText splits the content into the digits to parse and their base.
// 0x and 0o select base 16 and 8; a leading '-' is kept on the digits.
func (s *Scalar) integerText() (string, int) {
	c := s.content
	switch {
	case strings.HasPrefix(c, "0x"):
		return c[2:], 16
	case strings.HasPrefix(c, "-0x"):
		return "-" + c[3:], 16
	case strings.HasPrefix(c, "0o"):
		return c[2:], 8
	case strings.HasPrefix(c, "-0o"):
		return "-" + c[3:], 8
	default:
		return c, 10
	}
}

func (s *Scalar) toSigned(bits int, kind string) (int64, error) {
	text, base := s.integerText()
	v, err := strconv.ParseInt(text, base, bits)
	if err != nil {
		return 0, s.numberError(kind)
	}
	return v, nil
}

func (s *Scalar) toUnsigned(bits int, kind string) (uint64, error) {
	text, base := s.integerText()
	v, err := strconv.ParseUint(text, base, bits)
	if err != nil {
		return 0, s.numberError(kind)
	}
	return v, nil
}

// ToInt8 converts the content to an 8-bit integer.
func (s *Scalar) ToInt8() (int8, error) {
	v, err := s.toSigned(8, "byte")
	return int8(v), err
}

// ToInt16 converts the content to a 16-bit integer.
func (s *Scalar) ToInt16() (int16, error) {
	v, err := s.toSigned(16, "short")
	return int16(v), err
}

// ToInt32 converts the content to a 32-bit integer.
func (s *Scalar) ToInt32() (int32, error) {
	v, err := s.toSigned(32, "integer")
	return int32(v), err
}

// ToInt64 converts the content to a 64-bit integer.
func (s *Scalar) ToInt64() (int64, error) {
	return s.toSigned(64, "long")
}

// ToUint8 converts the content to an unsigned 8-bit integer.
func (s *Scalar) ToUint8() (uint8, error) {
	v, err := s.toUnsigned(8, "unsigned byte")
	return uint8(v), err
}

// ToUint16 converts the content to an unsigned 16-bit integer.
func (s *Scalar) ToUint16() (uint16, error) {
	v, err := s.toUnsigned(16, "unsigned short")
	return uint16(v), err
}

// ToUint32 converts the content to an unsigned 32-bit integer.
func (s *Scalar) ToUint32() (uint32, error) {
	v, err := s.toUnsigned(32, "unsigned integer")
	return uint32(v), err
}

// ToUint64 converts the content to an unsigned 64-bit integer.
func (s *Scalar) ToUint64() (uint64, error) {
	return s.toUnsigned(64, "unsigned long")
}

func (s *Scalar) toFloat(bits int) (float64, error) {
	switch s.content {
	case ".inf", ".Inf", ".INF":
		return math.Inf(1), nil
	case "-.inf", "-.Inf", "-.INF":
		return math.Inf(-1), nil
	case ".nan", ".NaN", ".NAN":
		return math.NaN(), nil
	}
	if !decimalFloat.MatchString(s.content) {
		return 0, s.formatError("floating point", i18n.MsgInvalidFloat, nil)
	}
	v, err := strconv.ParseFloat(s.content, bits)
	if err != nil {
		// out of range literals saturate to ±Inf
		if errors.Is(err, strconv.ErrRange) {
			return v, nil
		}
		return 0, s.formatError("floating point", i18n.MsgInvalidFloat, nil)
	}
	return v, nil
}

// ToFloat32 converts the content to a 32-bit float. Besides decimal and
// exponential literals, .inf, -.inf and .nan are accepted in lower, title and
// upper case.
func (s *Scalar) ToFloat32() (float32, error) {
	v, err := s.toFloat(32)
	return float32(v), err
}

// ToFloat64 converts the content to a 64-bit float; see ToFloat32.
func (s *Scalar) ToFloat64() (float64, error) {
	return s.toFloat(64)
}

// ToBool accepts true/True/TRUE and false/False/FALSE only.
func (s *Scalar) ToBool() (bool, error) {
	switch s.content {
	case "true", "True", "TRUE":
		return true, nil
	case "false", "False", "FALSE":
		return false, nil
	}
	return false, s.formatError("boolean", i18n.MsgInvalidBoolean, nil)
}

// ToChar requires the content to be exactly one character.
func (s *Scalar) ToChar() (rune, error) {
	if utf8.RuneCountInString(s.content) != 1 {
		return 0, s.formatError("character", i18n.MsgInvalidCharacter, nil)
	}
	r, _ := utf8.DecodeRuneInString(s.content)
	return r, nil
}
