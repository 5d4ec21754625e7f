package config

import "time"

// Rate limit configuration for rating submissions
type RateLimitConfig struct {
	AttemptsThreshold1 int           // Number of submissions before first cooldown
	CooldownDuration1  time.Duration // First cooldown duration
	AttemptsThreshold2 int           // Number of submissions before second cooldown
	CooldownDuration2  time.Duration // Second cooldown duration
}

var DefaultRateLimitConfig = RateLimitConfig{
	AttemptsThreshold1: 10,
	CooldownDuration1:  1 * time.Minute,
	AttemptsThreshold2: 30,
	CooldownDuration2:  5 * time.Minute,
}
