package config

import (
	"github.com/spf13/viper"
)

func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("client.origin", "http://localhost:5173")
	v.SetDefault("ledger.store", "postgres")
	v.SetDefault("ledger.index_lock", "redis")
	v.SetDefault("ledger.lock_ttl", "15s")
	v.SetDefault("ledger.lock_timeout", "3s")
	v.SetDefault("ledger.remote_timeout", "10s")
	v.SetDefault("ledger.lounge_delete_unindex", false)
	v.SetDefault("ledger.repair_max_attempts", 5)
	v.SetDefault("ledger.repair_poll_timeout", "5s")
	v.SetDefault("ledger.index_cache_ttl", "1h")
}

func NewLedgerConfig(v *viper.Viper) LedgerConfig {
	return LedgerConfig{
		Store:               v.GetString("ledger.store"),
		IndexLock:           v.GetString("ledger.index_lock"),
		LockTTL:             v.GetDuration("ledger.lock_ttl"),
		LockTimeout:         v.GetDuration("ledger.lock_timeout"),
		RemoteTimeout:       v.GetDuration("ledger.remote_timeout"),
		LoungeDeleteUnindex: v.GetBool("ledger.lounge_delete_unindex"),
		RepairMaxAttempts:   v.GetInt("ledger.repair_max_attempts"),
		RepairPollTimeout:   v.GetDuration("ledger.repair_poll_timeout"),
		IndexCacheTTL:       v.GetDuration("ledger.index_cache_ttl"),
	}
}
