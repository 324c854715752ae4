package jaxrs

import "github.com/mark3labs/swagger2jaxrs/internal/spec"

func childException(simple string) *spec.ExceptionDescriptor {
	return &spec.ExceptionDescriptor{
		ClassName:    "javax.ws.rs." + simple,
		SimpleName:   simple,
		IsChildClass: true,
	}
}

// exceptionTable is built once and only read afterwards, so concurrent
// Classify calls need no locking.
var exceptionTable = map[string]*spec.ExceptionDescriptor{
	"400": childException("BadRequestException"),
	"401": childException("NotAuthorizedException"),
	"403": childException("ForbiddenException"),
	"404": childException("NotFoundException"),
	"405": childException("NotAllowedException"),
	"406": childException("NotAcceptableException"),
	"415": childException("NotSupportedException"),
	"500": childException("InternalServerErrorException"),
	"503": childException("ServiceUnavailableException"),
}

var genericException = &spec.ExceptionDescriptor{
	ClassName:  "javax.ws.rs.WebApplicationException",
	SimpleName: "WebApplicationException",
}

// Classify maps a response status code to the exception a generated service
// throws for it. Codes outside the table fall back to WebApplicationException
// when they sort at or after "3" as strings; this is a string comparison, so
// "99" and "1000" also get the fallback while "200" gets nil.
func Classify(code string) *spec.ExceptionDescriptor {
	if d, ok := exceptionTable[code]; ok {
		return d
	}
	if code >= "3" {
		return genericException
	}
	return nil
}
