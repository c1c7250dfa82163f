package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/egaotan/solana-tokenswap/liquiditypool"
	"github.com/egaotan/solana-tokenswap/tokenswap"
	"github.com/egaotan/solana-tokenswap/utils"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
)

const (
	KindTokenSwap     = "tokenswap"
	KindLiquidityPool = "liquiditypool"
)

var (
	LogPath    = "./logs/"
	BackendLog = "backend"
	StoreLog   = "store"
	ServerLog  = "server"
	QuotedLog  = "quoted"
)

type Node struct {
	Rpc string `mapstructure:"rpc"`
}

type PoolConfig struct {
	Address string `mapstructure:"address"`
	Kind    string `mapstructure:"kind"`
}

type MySQLConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBUrl   string `mapstructure:"db_url"`
	Scheme  string `mapstructure:"db_scheme"`
	User    string `mapstructure:"db_user"`
	Passwd  string `mapstructure:"db_passwd"`
}

type SwapConstraintsConfig struct {
	OwnerKey            string   `mapstructure:"owner_key"`
	CurveTypes          []string `mapstructure:"curve_types"`
	TradeFeeNumerator   uint64   `mapstructure:"trade_fee_numerator"`
	TradeFeeDenominator uint64   `mapstructure:"trade_fee_denominator"`
}

type AmmConstraintsConfig struct {
	OwnerKey           string   `mapstructure:"owner_key"`
	CurveTypes         []string `mapstructure:"curve_types"`
	ReturnFeeNumerator uint64   `mapstructure:"return_fee_numerator"`
	FixedFeeNumerator  uint64   `mapstructure:"fixed_fee_numerator"`
	FeeDenominator     uint64   `mapstructure:"fee_denominator"`
}

type ConstraintsConfig struct {
	Swap *SwapConstraintsConfig `mapstructure:"swap"`
	Amm  *AmmConstraintsConfig  `mapstructure:"amm"`
}

type Config struct {
	Nodes          []*Node           `mapstructure:"nodes"`
	Listen         string            `mapstructure:"listen"`
	RefreshSeconds int               `mapstructure:"refresh_seconds"`
	Log            utils.LogConfig   `mapstructure:"log"`
	MySQL          MySQLConfig       `mapstructure:"mysql"`
	Pools          []*PoolConfig     `mapstructure:"pools"`
	Constraints    ConstraintsConfig `mapstructure:"constraints"`
}

const (
	DefaultListen         = ":8080"
	DefaultRefreshSeconds = 10
)

// LoadConfig reads the file at path. Every key can be overridden from the
// environment as TOKENSWAP_<SECTION>_<KEY>.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("TOKENSWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := map[string]interface{}{
		"listen":           DefaultListen,
		"refresh_seconds":  DefaultRefreshSeconds,
		"log.dir":          LogPath,
		"log.level":        "info",
		"log.console":      true,
		"log.max_size_mb":  100,
		"log.max_backups":  5,
		"log.max_age_days": 30,
		"mysql.enabled":    false,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if len(cfg.Nodes) == 0 {
		return errors.New("nodes is empty")
	}
	for _, node := range cfg.Nodes {
		parsed, err := url.Parse(node.Rpc)
		if err != nil || !strings.HasPrefix(parsed.Scheme, "http") {
			return fmt.Errorf("invalid rpc url %q", node.Rpc)
		}
	}
	if cfg.RefreshSeconds <= 0 {
		return errors.New("invalid refresh_seconds")
	}
	if cfg.MySQL.Enabled && cfg.MySQL.DBUrl == "" {
		return errors.New("mysql enabled without db_url")
	}
	for _, pool := range cfg.Pools {
		if _, err := solana.PublicKeyFromBase58(pool.Address); err != nil {
			return fmt.Errorf("invalid pool address %q: %w", pool.Address, err)
		}
		if pool.Kind != KindTokenSwap && pool.Kind != KindLiquidityPool {
			return fmt.Errorf("invalid pool kind %q", pool.Kind)
		}
	}
	if _, err := cfg.SwapConstraints(); err != nil {
		return err
	}
	if _, err := cfg.AmmConstraints(); err != nil {
		return err
	}
	return nil
}

// DSN is the go-sql-driver/mysql data source name.
func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local", c.User, c.Passwd, c.DBUrl, c.Scheme)
}

func (p *PoolConfig) PublicKey() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(p.Address)
}

func parseCurveTypes(names []string) ([]tokenswap.CurveType, error) {
	curveTypes := make([]tokenswap.CurveType, 0, len(names))
	for _, name := range names {
		curveType, err := tokenswap.ParseCurveType(name)
		if err != nil {
			return nil, err
		}
		curveTypes = append(curveTypes, curveType)
	}
	return curveTypes, nil
}

func parseOwner(key string) (solana.PublicKey, error) {
	if key == "" {
		return solana.PublicKey{}, nil
	}
	owner, err := solana.PublicKeyFromBase58(key)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid owner key %q: %w", key, err)
	}
	return owner, nil
}

// SwapConstraints returns nil when the section is absent.
func (c *Config) SwapConstraints() (*tokenswap.SwapConstraints, error) {
	section := c.Constraints.Swap
	if section == nil {
		return nil, nil
	}
	owner, err := parseOwner(section.OwnerKey)
	if err != nil {
		return nil, err
	}
	curveTypes, err := parseCurveTypes(section.CurveTypes)
	if err != nil {
		return nil, err
	}
	return &tokenswap.SwapConstraints{
		OwnerKey:        owner,
		ValidCurveTypes: curveTypes,
		Fees: tokenswap.Fees{
			TradeFeeNumerator:   section.TradeFeeNumerator,
			TradeFeeDenominator: section.TradeFeeDenominator,
		},
	}, nil
}

// AmmConstraints returns nil when the section is absent.
func (c *Config) AmmConstraints() (*liquiditypool.AmmConstraints, error) {
	section := c.Constraints.Amm
	if section == nil {
		return nil, nil
	}
	owner, err := parseOwner(section.OwnerKey)
	if err != nil {
		return nil, err
	}
	curveTypes, err := parseCurveTypes(section.CurveTypes)
	if err != nil {
		return nil, err
	}
	return &liquiditypool.AmmConstraints{
		OwnerKey:        owner,
		ValidCurveTypes: curveTypes,
		Fees: liquiditypool.Fees{
			ReturnFeeNumerator: section.ReturnFeeNumerator,
			FixedFeeNumerator:  section.FixedFeeNumerator,
			FeeDenominator:     section.FeeDenominator,
		},
	}, nil
}
