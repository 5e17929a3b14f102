package config

import "github.com/i474232898/weather-stickers/internal/weather"

// DefaultCities is the sticker set content, in sticker order.
func DefaultCities() []weather.City {
	return []weather.City{
		{Name: "Ufa", Query: "Ufa,RU", Emoji: "🏙️", Output: "sticker_ufa.png", UTCOffsetHours: 5},
		{Name: "Neftekamsk", Query: "Neftekamsk,RU", Emoji: "🏙️", Output: "sticker_neftekamsk.png", UTCOffsetHours: 5},
		{Name: "Dyurtyuli", Query: "Dyurtyuli,RU", Emoji: "🏙️", Output: "sticker_dyurtyuli.png", UTCOffsetHours: 5},
		{Name: "Mesyagutovo", Query: "Mesyagutovo,RU", Emoji: "🏙️", Output: "sticker_mesyagutovo.png", UTCOffsetHours: 5},
		{Name: "Kushnarenkovo", Query: "Kushnarënkovo, RU", Emoji: "🏙️", Output: "sticker_kushnarenkovo.png", UTCOffsetHours: 5},
		{Name: "Tuymazy", Query: "Tuymazy,RU", Emoji: "🏙️", Output: "sticker_tuymazy.png", UTCOffsetHours: 5},
		{Name: "Sterlitamak", Query: "Sterlitamak,RU", Emoji: "🏙️", Output: "sticker_sterlitamak.png", UTCOffsetHours: 5},
		{Name: "Salavat", Query: "Salavat,RU", Emoji: "🏙️", Output: "sticker_salavat.png", UTCOffsetHours: 5},
		{Name: "Meleuz", Query: "Meleuz,RU", Emoji: "🏙️", Output: "sticker_meleuz.png", UTCOffsetHours: 5},
		{Name: "Kumertau", Query: "Kumertau,RU", Emoji: "🏙️", Output: "sticker_kumertau.png", UTCOffsetHours: 5},
	}
}
