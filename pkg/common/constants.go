package common

const (
	RedisStreamPredictionRefresh = "coin.prediction.refresh"

	RedisStreamGroup    = "worker-group"
	RedisStreamConsumer = "worker-consumer"

	RedisKeyIndicators = "indicators:"
	RedisKeySentiment  = "sentiment:"
)
