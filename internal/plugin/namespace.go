package plugin

import (
	"regexp"
	"strings"
)

// IDSeparator joins a plugin prefix and a rule name
const IDSeparator = "/"

var pluginNamePattern = regexp.MustCompile(`^(?:@[^/]+/)?eslint-plugin-(.+)$`)

// IsPluginPackage reports whether name is eslint-plugin-<x> or @<scope>/eslint-plugin-<x>
func IsPluginPackage(name string) bool {
	return pluginNamePattern.MatchString(name)
}

// Prefix returns the rule id prefix of a plugin package: the part after
// "eslint-plugin-", or the raw name when the name does not follow the convention
func Prefix(packageName string) string {
	if m := pluginNamePattern.FindStringSubmatch(packageName); m != nil {
		return m[1]
	}
	return packageName
}

// RuleID builds "<prefix>/<rule>"
func RuleID(prefix, ruleName string) string {
	return prefix + IDSeparator + ruleName
}

// IsScoped reports whether packageName is an @scope/ package
func IsScoped(packageName string) bool {
	return strings.HasPrefix(packageName, "@")
}

// RegistryURL returns the npm registry page used as documentation link for
// plugin rules that declare none
func RegistryURL(packageName string) string {
	url := "https://www.npmjs.com/package/" + packageName
	if IsScoped(packageName) {
		return url
	}
	return url + "#rules"
}

// FilterPlugins keeps the plugin package names, preserving order
func FilterPlugins(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if IsPluginPackage(name) {
			out = append(out, name)
		}
	}
	return out
}
