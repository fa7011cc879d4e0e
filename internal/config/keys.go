package config

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
)

// Keys lists every recognised configuration key in file order.
var Keys = []string{
	"clip_per_page",
	"clip_max_show_length",
	"search_page_clip_max_show_length",
	"search_clip_per_batch",
	"log_level",
	"dark_mode",
	"language",
	"auto_delete_duplicate_clip",
	"pause_monitoring",
}

// Get returns the string form of a configuration value.
func (cfg *Config) Get(key string) (string, error) {
	switch key {
	case "clip_per_page":
		return strconv.Itoa(cfg.ClipPerPage), nil
	case "clip_max_show_length":
		return strconv.Itoa(cfg.ClipMaxShowLength), nil
	case "search_page_clip_max_show_length":
		return strconv.Itoa(cfg.SearchPageClipMaxShowLength), nil
	case "search_clip_per_batch":
		return strconv.Itoa(cfg.SearchClipPerBatch), nil
	case "log_level":
		return string(cfg.LogLevel), nil
	case "dark_mode":
		return strconv.FormatBool(cfg.DarkMode), nil
	case "language":
		return cfg.Language, nil
	case "auto_delete_duplicate_clip":
		return strconv.FormatBool(cfg.AutoDeleteDuplicateClip), nil
	case "pause_monitoring":
		return strconv.FormatBool(cfg.PauseMonitoring), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// Set parses value and assigns it to key.
func (cfg *Config) Set(key, value string) error {
	switch key {
	case "clip_per_page":
		return setPositive(&cfg.ClipPerPage, key, value)
	case "clip_max_show_length":
		return setPositive(&cfg.ClipMaxShowLength, key, value)
	case "search_page_clip_max_show_length":
		return setPositive(&cfg.SearchPageClipMaxShowLength, key, value)
	case "search_clip_per_batch":
		return setPositive(&cfg.SearchClipPerBatch, key, value)
	case "log_level":
		level, err := ParseLogLevel(value)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	case "dark_mode":
		return setBool(&cfg.DarkMode, value)
	case "language":
		tag, err := language.Parse(value)
		if err != nil {
			return fmt.Errorf("invalid language tag: %s", value)
		}
		cfg.Language = tag.String()
	case "auto_delete_duplicate_clip":
		return setBool(&cfg.AutoDeleteDuplicateClip, value)
	case "pause_monitoring":
		return setBool(&cfg.PauseMonitoring, value)
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func setPositive(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid %s: %s (use a positive integer)", key, value)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, value string) error {
	switch value {
	case "true":
		*dst = true
	case "false":
		*dst = false
	default:
		return fmt.Errorf("invalid boolean: %s (use true/false)", value)
	}
	return nil
}
