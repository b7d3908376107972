// Package utils carries the ambient plumbing shared by repobridge commands:
// layered configuration loading over Viper, zap logger construction, and a
// writer that flushes update progress output as soon as it is written.
package utils
