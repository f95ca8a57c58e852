package config

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
	"github.com/thanhpk/randstr"
)

const (
	// ListeningPortKey is the port where the gRPC and HTTP interfaces listen on
	ListeningPortKey = "LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of
	// the engine
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// LocalChainKey is the wormhole chain id of the chain the engine runs on
	LocalChainKey = "LOCAL_CHAIN"
	// SlotDurationKey is the duration of a slot of the local chain
	SlotDurationKey = "SLOT_DURATION"
	// GenesisTimeKey is the unix time of slot 0. If not set, the time of the
	// first start is used and persisted in the datadir
	GenesisTimeKey = "GENESIS_TIME"
	// EnactDelaySlotsKey is the number of slots between proposing and enacting
	// new auction parameters. It is raised to one epoch if lower
	EnactDelaySlotsKey = "ENACT_DELAY_SLOTS"
	// UpgradeAuthorityKey is the address allowed to initialize the engine
	UpgradeAuthorityKey = "UPGRADE_AUTHORITY"
	// EngineProgramIDKey is the address of the engine, emitter of its messages
	EngineProgramIDKey = "ENGINE_PROGRAM_ID"
	// TokenRouterProgramIDKey is the address of the local token router
	TokenRouterProgramIDKey = "TOKEN_ROUTER_PROGRAM_ID"
	// ConfigCacheSizeKey is the number of auction parameters versions cached
	ConfigCacheSizeKey = "CONFIG_CACHE_SIZE"
	// EnableFaucetKey enables the owner to mint tokens to any account
	EnableFaucetKey = "ENABLE_FAUCET"
	// NatsURLKey is the url of the NATS server events and messages are
	// published to. Publishing is disabled if not set
	NatsURLKey = "NATS_URL"
	// EventsSubjectKey is the prefix of the NATS subjects of engine events
	EventsSubjectKey = "EVENTS_SUBJECT"
	// MessagesSubjectKey is the prefix of the NATS subjects of the VAAs
	// emitted by the engine
	MessagesSubjectKey = "MESSAGES_SUBJECT"
	// AuthSecretKey is the secret access tokens are signed with. If not set,
	// one is generated and persisted in the datadir
	AuthSecretKey = "AUTH_SECRET"
	// RateLimitKey is the max number of requests per second served, 0 means
	// unlimited
	RateLimitKey = "RATE_LIMIT"
	// CctpAttestersKey is the list of hex addresses of the CCTP attesters
	CctpAttestersKey = "CCTP_ATTESTERS"
	// CctpAttestationThresholdKey is the min number of attester signatures
	CctpAttestationThresholdKey = "CCTP_ATTESTATION_THRESHOLD"
	// CctpLocalDomainKey is the CCTP domain of the local chain
	CctpLocalDomainKey = "CCTP_LOCAL_DOMAIN"
	// BurnTokenKey is the mint of the token burned and minted through CCTP
	BurnTokenKey = "BURN_TOKEN"
	// GuardianKeyKey is the hex private key VAAs are signed with, if any
	GuardianKeyKey = "GUARDIAN_KEY"
	// StatsIntervalKey defines interval in seconds for printing memory
	// statistics
	StatsIntervalKey = "STATS_INTERVAL"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// NoTLSKey is used to start the engine without TLS
	NoTLSKey = "NO_TLS"
	// ExtraIPKey is used to add extra ip addresses to the self-signed TLS
	// certificate
	ExtraIPKey = "EXTRA_IP"
	// ExtraDomainKey is used to add extra domains to the self-signed TLS
	// certificate
	ExtraDomainKey = "EXTRA_DOMAIN"

	DbLocation       = "db"
	TLSLocation      = "tls"
	AuthLocation     = "auth"
	ProfilerLocation = "stats"

	DBBadger   = "badger"
	DBInMemory = "inmemory"

	authSecretFile  = "secret"
	genesisFile     = "genesis"
	authSecretLen   = 32
	hexPrefix       = "0x"
	defaultCacheLen = 64
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("matching-engine", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("MENGINE")
	vip.AutomaticEnv()

	vip.SetDefault(ListeningPortKey, 9000)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(LocalChainKey, 1)
	vip.SetDefault(SlotDurationKey, 400*time.Millisecond)
	vip.SetDefault(EnactDelaySlotsKey, domain.SlotsPerEpoch)
	vip.SetDefault(ConfigCacheSizeKey, defaultCacheLen)
	vip.SetDefault(EnableFaucetKey, false)
	vip.SetDefault(EventsSubjectKey, "mengine.events")
	vip.SetDefault(MessagesSubjectKey, "mengine.vaas")
	vip.SetDefault(RateLimitKey, 0)
	vip.SetDefault(CctpAttestationThresholdKey, 1)
	vip.SetDefault(CctpLocalDomainKey, 5)
	vip.SetDefault(StatsIntervalKey, 600)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(NoTLSKey, false)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

func GetStringSlice(key string) []string {
	return splitList(vip.GetStringSlice(key))
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetAddress returns the address of the given key. Values are validated at
// init, so the zero address is returned only for unset keys.
func GetAddress(key string) domain.Address {
	addr, _ := domain.ParseAddress(GetString(key))
	return addr
}

func GetLocalChain() domain.ChainID {
	return domain.ChainID(vip.GetUint32(LocalChainKey))
}

func GetCctpLocalDomain() uint32 {
	return vip.GetUint32(CctpLocalDomainKey)
}

func GetCctpAttesters() []common.Address {
	attesters := make([]common.Address, 0)
	for _, a := range GetStringSlice(CctpAttestersKey) {
		attesters = append(attesters, common.HexToAddress(a))
	}
	return attesters
}

// GetGuardianKey returns the key VAAs are signed with, or nil if not set.
func GetGuardianKey() *ecdsa.PrivateKey {
	str := strings.TrimPrefix(GetString(GuardianKeyKey), hexPrefix)
	if len(str) <= 0 {
		return nil
	}
	key, _ := crypto.HexToECDSA(str)
	return key
}

// GetAuthSecret returns the configured secret or the one stored in the
// datadir, generated at init if missing.
func GetAuthSecret() []byte {
	if secret := GetString(AuthSecretKey); len(secret) > 0 {
		return []byte(secret)
	}
	secret, _ := os.ReadFile(authSecretPath())
	return []byte(strings.TrimSpace(string(secret)))
}

// GetGenesisTime returns the configured time of slot 0 or the one stored in
// the datadir at first start.
func GetGenesisTime() time.Time {
	if vip.IsSet(GenesisTimeKey) {
		return time.Unix(vip.GetInt64(GenesisTimeKey), 0)
	}
	content, _ := os.ReadFile(genesisPath())
	unix, _ := strconv.ParseInt(strings.TrimSpace(string(content)), 10, 64)
	return time.Unix(unix, 0)
}

func validate() error {
	var result *multierror.Error

	if len(GetDatadir()) <= 0 {
		result = multierror.Append(result, fmt.Errorf("missing datadir"))
	}

	port := GetInt(ListeningPortKey)
	if port <= 1024 || port > 65535 {
		result = multierror.Append(
			result, fmt.Errorf("%s must be in range [1025, 65535]", ListeningPortKey),
		)
	}

	if dbType := GetString(DBTypeKey); dbType != DBBadger && dbType != DBInMemory {
		result = multierror.Append(
			result, fmt.Errorf("%s must be either %s or %s", DBTypeKey, DBBadger, DBInMemory),
		)
	}

	if GetLocalChain() == 0 {
		result = multierror.Append(result, fmt.Errorf("missing local chain"))
	}
	if GetDuration(SlotDurationKey) <= 0 {
		result = multierror.Append(result, fmt.Errorf("%s must be positive", SlotDurationKey))
	}
	if GetInt(ConfigCacheSizeKey) < 0 {
		result = multierror.Append(result, fmt.Errorf("%s must not be negative", ConfigCacheSizeKey))
	}
	if GetInt(RateLimitKey) < 0 {
		result = multierror.Append(result, fmt.Errorf("%s must not be negative", RateLimitKey))
	}
	if GetInt(StatsIntervalKey) < 0 {
		result = multierror.Append(result, fmt.Errorf("%s must not be negative", StatsIntervalKey))
	}

	for _, key := range []string{
		UpgradeAuthorityKey, EngineProgramIDKey, TokenRouterProgramIDKey, BurnTokenKey,
	} {
		str := GetString(key)
		if len(str) <= 0 {
			result = multierror.Append(result, fmt.Errorf("missing %s", key))
			continue
		}
		addr, err := domain.ParseAddress(str)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", key, err))
			continue
		}
		if domain.IsZeroAddress(addr) {
			result = multierror.Append(result, fmt.Errorf("%s must not be zero", key))
		}
	}

	attesters := GetStringSlice(CctpAttestersKey)
	if len(attesters) <= 0 {
		result = multierror.Append(result, fmt.Errorf("missing %s", CctpAttestersKey))
	}
	for _, a := range attesters {
		if !common.IsHexAddress(a) {
			result = multierror.Append(result, fmt.Errorf("invalid attester %q", a))
		}
	}
	threshold := GetInt(CctpAttestationThresholdKey)
	if threshold <= 0 || threshold > len(attesters) {
		result = multierror.Append(result, fmt.Errorf(
			"%s must be in range [1, %d]", CctpAttestationThresholdKey, len(attesters),
		))
	}

	if key := strings.TrimPrefix(GetString(GuardianKeyKey), hexPrefix); len(key) > 0 {
		if _, err := crypto.HexToECDSA(key); err != nil {
			result = multierror.Append(result, fmt.Errorf("invalid %s: %w", GuardianKeyKey, err))
		}
	}

	if vip.IsSet(GenesisTimeKey) && vip.GetInt64(GenesisTimeKey) < 0 {
		result = multierror.Append(result, fmt.Errorf("%s must not be negative", GenesisTimeKey))
	}

	return result.ErrorOrNil()
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}

	noTls := GetBool(NoTLSKey)
	if !noTls {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, TLSLocation)); err != nil {
			return err
		}
	}

	if len(GetString(AuthSecretKey)) <= 0 {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, AuthLocation)); err != nil {
			return err
		}
		if err := writeIfNotExists(
			authSecretPath(), func() string { return randstr.Hex(authSecretLen) }, 0600,
		); err != nil {
			return err
		}
	}

	if !vip.IsSet(GenesisTimeKey) {
		if err := writeIfNotExists(genesisPath(), func() string {
			return strconv.FormatInt(time.Now().Unix(), 10)
		}, 0644); err != nil {
			return err
		}
	}
	return nil
}

func authSecretPath() string {
	return filepath.Join(GetDatadir(), AuthLocation, authSecretFile)
}

func genesisPath() string {
	return filepath.Join(GetDatadir(), genesisFile)
}

func writeIfNotExists(path string, content func() string, perm os.FileMode) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(content()), perm)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

// splitList supports comma separated values for list keys set via env.
func splitList(values []string) []string {
	list := make([]string, 0, len(values))
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); len(s) > 0 {
				list = append(list, s)
			}
		}
	}
	return list
}
