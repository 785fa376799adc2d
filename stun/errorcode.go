package stun

// ErrorCode is a combined STUN error code, e.g. 401. Class and number
// are derived as code/100 and code%100 respectively.
type ErrorCode uint16

// Well-known error codes (RFC 5389 §15.6, RFC 3489 §11.2.9 for Stale
// Credentials, RFC 5245 §21.2 for Role Conflict).
const (
	CodeTryAlternate     ErrorCode = 300
	CodeBadRequest       ErrorCode = 400
	CodeUnauthorized     ErrorCode = 401
	CodeUnknownAttribute ErrorCode = 420
	CodeStaleCredentials ErrorCode = 430
	CodeStaleNonce       ErrorCode = 438
	CodeRoleConflict     ErrorCode = 487
	CodeServerError      ErrorCode = 500
)

// Reason returns the RFC-recommended reason phrase for c, or "Unknown
// Error" if c is not one of the well-known codes.
func (c ErrorCode) Reason() string {
	switch c {
	case CodeTryAlternate:
		return "Try Alternate"
	case CodeBadRequest:
		return "Bad Request"
	case CodeUnauthorized:
		return "Unauthorized"
	case CodeUnknownAttribute:
		return "Unknown Attribute"
	case CodeStaleCredentials:
		return "Stale Credentials"
	case CodeStaleNonce:
		return "Stale Nonce"
	case CodeRoleConflict:
		return "Role Conflict"
	case CodeServerError:
		return "Server Error"
	default:
		return "Unknown Error"
	}
}

const (
	errorCodeHeaderLength = 4 // reserved:16 | class:8 | number:8
	errorCodeMaxValueLen  = 512
)

// addErrorCode writes an ERROR-CODE attribute: {reserved=0, class,
// number, reason...}. The reason is required and padded to word
// alignment like any other variable-length value.
func (c *context) addErrorCode(code ErrorCode, reason []byte) error {
	if len(reason) == 0 {
		return ErrBadParam
	}
	n := errorCodeHeaderLength + len(reason)
	if n > errorCodeMaxValueLen {
		return ErrBadParam
	}
	if err := c.reserve(AttrErrorCode, n); err != nil {
		return err
	}
	if !c.dryRun() {
		buf := c.buf[c.idx:]
		c.rw.putUint16(buf, uint16(AttrErrorCode))
		c.rw.putUint16(buf[2:], uint16(n))
		c.rw.putUint16(buf[4:], 0) // reserved
		buf[6] = byte(code / 100)  // class
		buf[7] = byte(code % 100)  // number
		copy(buf[8:], reason)
		padded := align4(n)
		for i := n; i < padded; i++ {
			buf[4+i] = 0
		}
	}
	c.commit(AttrErrorCode, n)
	return nil
}

// ParsedErrorCode is the decoded value of an ERROR-CODE attribute.
type ParsedErrorCode struct {
	Code   ErrorCode
	Reason []byte // borrowed view into the input buffer
}

// parseErrorCode decodes attr's value as ERROR-CODE.
func parseErrorCode(attr RawAttribute) (ParsedErrorCode, error) {
	if attr.Type != AttrErrorCode || attr.Value == nil {
		return ParsedErrorCode{}, ErrBadParam
	}
	if len(attr.Value) < errorCodeHeaderLength {
		return ParsedErrorCode{}, ErrBadParam
	}
	reasonLen := len(attr.Value) - errorCodeHeaderLength
	if reasonLen <= 0 {
		return ParsedErrorCode{}, ErrBadParam
	}
	class := attr.Value[2]
	number := attr.Value[3]
	return ParsedErrorCode{
		Code:   ErrorCode(uint16(class)*100 + uint16(number)),
		Reason: attr.Value[errorCodeHeaderLength:],
	}, nil
}
