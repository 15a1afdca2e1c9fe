package errors

import "fmt"

// Common error wrapping patterns used throughout the resolver

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapTypeCheckError wraps go/types and package loading failures
func WrapTypeCheckError(pkg string, cause error) *BaseError {
	return Wrap(TypeCheckErrorCode, fmt.Sprintf("failed to type-check package '%s'", pkg), cause).
		WithContext("package", pkg)
}

// NewMissingComponentTypeError reports a descriptor component whose struct
// does not exist in the deployment unit.
func NewMissingComponentTypeError(component, typeName string) *BaseError {
	return Newf(ConfigurationErrorCode, "component %q refers to type %q which was not found in the deployment unit", component, typeName).
		WithContext("component", component).
		WithContext("type", typeName).
		WithSuggestion("Check the descriptor 'type' field or add the package that declares it")
}

// NewMarkerSyntaxError reports a malformed txsync marker comment
func NewMarkerSyntaxError(loc SourceLocation, comment string, cause error) *BaseError {
	return Wrap(SyntaxErrorCode, fmt.Sprintf("invalid marker %q", comment), cause).
		WithLocation(loc).
		WithSuggestion("Use one of: //txsync::stateful, //txsync::after_begin, //txsync::after_completion, //txsync::before_completion")
}
