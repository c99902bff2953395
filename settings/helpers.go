package settings

import (
	"github.com/bsv-blockchain/sha256d/util/bytesize"
	"github.com/ordishs/gocore"
)

func getString(key, defaultValue string) string {
	value, found := gocore.Config().Get(key)
	if !found {
		return defaultValue
	}

	return value
}

func getInt(key string, defaultValue int) int {
	value, found := gocore.Config().GetInt(key)
	if !found {
		return defaultValue
	}

	return value
}

func getBool(key string, defaultValue bool) bool {
	return gocore.Config().GetBool(key, defaultValue)
}

func getByteSize(key, defaultValue string) (bytesize.ByteSize, error) {
	return bytesize.Parse(getString(key, defaultValue))
}
