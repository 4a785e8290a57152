package station

// Defaults returns the built-in station table used when no stations file is
// configured.
func Defaults() []Station {
	return []Station{
		{
			ID:          "web3",
			Format:      FormatIcecast,
			MetadataURL: "https://stream.web3radio.cloud/status-json.xsl",
			MountHint:   "/stream",
			DisplayName: "Web3 Radio",
		},
		{
			ID:          "Venus",
			Format:      FormatIcecast,
			MetadataURL: "https://stream.venusradio.live/status-json.xsl",
			MountHint:   "/venus",
			DisplayName: "Venus Radio",
		},
		{
			ID:          "prambors",
			Format:      FormatShoutcastV2,
			MetadataURL: "https://s1.cloudmu.id/listen/prambors/stats?json=1",
			DisplayName: "Prambors FM",
		},
		{
			ID:          "genfm",
			Format:      FormatShoutcast,
			MetadataURL: "https://stream.genfm.com/currentsong?sid=1",
			DisplayName: "Gen FM",
		},
		{
			ID:          "lofi",
			Format:      FormatZeno,
			MetadataURL: "https://api.zeno.fm/mounts/metadata/0r0xa792kwzuv",
			DisplayName: "Lofi Beats",
		},
		{
			ID:          "hardradio",
			Format:      FormatRadioJar,
			MetadataURL: "https://www.radiojar.com/api/stations/hardradio/now_playing/",
			DisplayName: "Hard Radio",
		},
	}
}
