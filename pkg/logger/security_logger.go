package logger

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"trends-search/pkg/utils"
)

var (
	keyParamRegex = regexp.MustCompile(`(?i)([?&](?:key|api_key|token)=)[^&\s]+`)
	keyPairRegex  = regexp.MustCompile(`(?i)(api_key|key|token|secret)([=:]\s*)[a-zA-Z0-9_\-]+`)
)

// SecurityLogger masks API keys and upstream URLs before they reach the log
type SecurityLogger struct {
	*Logger
}

func NewSecurityLogger(base *Logger) *SecurityLogger {
	return &SecurityLogger{Logger: base}
}

// MaskAPIKey keeps the last four characters so operators can tell keys apart.
func (sl *SecurityLogger) MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "***"
	}
	return "***" + key[len(key)-4:]
}

// MaskURL strips the query string, which carries the API key, and appends a short hash.
func (sl *SecurityLogger) MaskURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "url#" + utils.CalculateHashShort(rawURL)
	}
	return fmt.Sprintf("%s%s#%s", parsed.Host, parsed.Path, utils.CalculateHashShort(rawURL))
}

// MaskTerms logs a count and a short sample rather than every term.
func (sl *SecurityLogger) MaskTerms(terms []string) string {
	if len(terms) == 0 {
		return "no_terms"
	}
	if len(terms) <= 3 {
		return fmt.Sprintf("terms_count=%d", len(terms))
	}
	return fmt.Sprintf("terms_count=%d,sample=[%s,%s,...]", len(terms), terms[0], terms[1])
}

func (sl *SecurityLogger) MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(data))
	for key, value := range data {
		lowerKey := strings.ToLower(key)
		switch {
		case strings.Contains(lowerKey, "key") || strings.Contains(lowerKey, "token"):
			if str, ok := value.(string); ok {
				masked[key] = sl.MaskAPIKey(str)
			} else {
				masked[key] = "***"
			}
		case strings.Contains(lowerKey, "url") || strings.Contains(lowerKey, "endpoint"):
			if str, ok := value.(string); ok {
				masked[key] = sl.MaskURL(str)
			} else {
				masked[key] = value
			}
		case strings.Contains(lowerKey, "terms"):
			if terms, ok := value.([]string); ok {
				masked[key] = sl.MaskTerms(terms)
			} else {
				masked[key] = value
			}
		default:
			masked[key] = value
		}
	}
	return masked
}

// MaskLogMessage removes API keys that appear inline in a message or error string.
func (sl *SecurityLogger) MaskLogMessage(message string) string {
	masked := keyParamRegex.ReplaceAllString(message, "${1}***")
	return keyPairRegex.ReplaceAllString(masked, "${1}${2}***")
}

func (sl *SecurityLogger) SafeInfo(msg string, fields map[string]interface{}) {
	sl.Logger.WithFields(sl.MaskSensitiveData(fields)).Info(sl.MaskLogMessage(msg))
}

func (sl *SecurityLogger) SafeError(msg string, err error, fields map[string]interface{}) {
	masked := sl.MaskSensitiveData(fields)
	if err != nil {
		masked["error"] = sl.MaskLogMessage(err.Error())
	}
	sl.Logger.WithFields(masked).Error(sl.MaskLogMessage(msg))
}

func (sl *SecurityLogger) SafeDebug(msg string, fields map[string]interface{}) {
	sl.Logger.WithFields(sl.MaskSensitiveData(fields)).Debug(sl.MaskLogMessage(msg))
}

// GetSecurityLogger wraps the current global logger
func GetSecurityLogger() *SecurityLogger {
	return NewSecurityLogger(GetLogger())
}
