package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

// load reads the first name found under dirs and overlays environment
// variables on the keys that file declares. POSTGRES_SSLMODE overrides
// postgres.sslMode; variables that match no declared key are ignored.
func load(name string, dirs ...string) (*koanf.Koanf, error) {
	path, err := locate(name, dirs)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	keys := envKeyIndex(k.All())
	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			return keys[strings.ToUpper(key)], value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load environment overrides")
	}

	return k, nil
}

func locate(name string, dirs []string) (string, error) {
	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", errors.Errorf("%s not found in %s", name, strings.Join(dirs, ", "))
}

// envKeyIndex maps the environment spelling of every declared key to the key
// itself, e.g. RELAY_HEARTBEATTIMEOUT to relay.heartbeatTimeout.
func envKeyIndex(declared map[string]any) map[string]string {
	index := make(map[string]string, len(declared))
	for key := range declared {
		index[strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = key
	}

	return index
}

func unmarshal(k *koanf.Koanf, out any) error {
	err := k.UnmarshalWithConf("", out, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           out,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			MatchName:        strings.EqualFold,
		},
	})

	return errors.Wrap(err, "decode config")
}

// replicasFromEnv reads POSTGRES_REPLICAS_<n>_{HOST,PORT,USERNAME,PASSWORD}
// for n = 0, 1, ... until a replica without host or port.
func replicasFromEnv(lookup func(string) (string, bool)) []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig
	for i := 0; ; i++ {
		field := func(name string) string {
			v, _ := lookup("POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_" + name)

			return v
		}

		replica := postgres.ConnectionConfig{
			Host:     field("HOST"),
			Port:     field("PORT"),
			UserName: field("USERNAME"),
			Password: field("PASSWORD"),
		}
		if replica.Host == "" || replica.Port == "" {
			return replicas
		}
		replicas = append(replicas, replica)
	}
}
