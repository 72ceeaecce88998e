package errors

import "fmt"

// WrapFileSystemError reports a failed file operation such as "read" or "scan"
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	return Wrapf(FileSystemErrorCode, cause, "failed to %s file '%s'", operation, path).
		WithContext("operation", operation).
		WithContext("path", path)
}

func wrapGeneration(code ErrorCode, kind, target, stage, message string, cause error) *GenerationError {
	return &GenerationError{
		BaseError:      Wrap(code, message, cause),
		GenerationType: kind,
		TargetFile:     target,
		Stage:          stage,
	}
}

// WrapTemplateError reports a template that could not be loaded or expanded
func WrapTemplateError(templateName, operation string, cause error) *GenerationError {
	msg := fmt.Sprintf("failed to %s template '%s'", operation, templateName)
	return wrapGeneration(TemplateErrorCode, "template", templateName, operation, msg, cause)
}

// WrapGenerateError reports a failure producing item, e.g. a class or method
func WrapGenerateError(generationType, item string, cause error) *GenerationError {
	msg := fmt.Sprintf("failed to generate %s '%s'", generationType, item)
	return wrapGeneration(GenerationErrorCode, generationType, item, "", msg, cause)
}

// WrapConfigurationError reports a config source that could not be used
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	return Wrapf(ConfigurationErrorCode, cause, "failed to %s configuration '%s'", operation, configType).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// WrapManifestError reports a manifest that could not be read or decoded
func WrapManifestError(path string, cause error) *ManifestError {
	return &ManifestError{
		BaseError: Wrap(ManifestErrorCode, "failed to load manifest", cause).
			WithLocation(SourceLocation{File: path}),
		Path: path,
	}
}

// ConfigurationError reports an invalid setting
func ConfigurationError(key, message string) *BaseError {
	return Newf(ConfigurationErrorCode, "invalid configuration '%s': %s", key, message).
		WithContext("key", key)
}
