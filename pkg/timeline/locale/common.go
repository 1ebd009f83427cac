package locale

// Common holds the replacements shared by every timeline, keyed by
// language. They sit under a language's own table: an entry in the user
// table with the same key wins.
//
// Common text keys match whole event names only, so "Start" does not
// rewrite "Restart".
var Common = Table{
	"de": {
		Locale:      "de",
		ReplaceSync: map[string]string{"Engage!": "Start!"},
		ReplaceText: map[string]string{
			"--Reset--":        "--Reset--",
			"--sync--":         "--sync--",
			"--targetable--":   "--anvisierbar--",
			"--untargetable--": "--nicht anvisierbar--",
			"Enrage":           "Finalangriff",
			"Start":            "Start",
		},
	},
	"fr": {
		Locale:      "fr",
		ReplaceSync: map[string]string{"Engage!": "À l'attaque"},
		ReplaceText: map[string]string{
			"--Reset--":        "--Réinitialisation--",
			"--sync--":         "--sync--",
			"--targetable--":   "--Ciblable--",
			"--untargetable--": "--Impossible à cibler--",
			"Enrage":           "Enrage",
			"Start":            "Début",
		},
	},
	"ja": {
		Locale:      "ja",
		ReplaceSync: map[string]string{"Engage!": "戦闘開始！"},
		ReplaceText: map[string]string{
			"--Reset--":        "--リセット--",
			"--sync--":         "--sync--",
			"--targetable--":   "--ターゲット可能--",
			"--untargetable--": "--ターゲット不可--",
			"Enrage":           "時間切れ",
			"Start":            "開始",
		},
	},
	"cn": {
		Locale:      "cn",
		ReplaceSync: map[string]string{"Engage!": "战斗开始！"},
		ReplaceText: map[string]string{
			"--Reset--":        "--重置--",
			"--sync--":         "--sync--",
			"--targetable--":   "--可选中--",
			"--untargetable--": "--无法选中--",
			"Enrage":           "狂暴",
			"Start":            "开始",
		},
	},
	"ko": {
		Locale:      "ko",
		ReplaceSync: map[string]string{"Engage!": "전투 시작!"},
		ReplaceText: map[string]string{
			"--Reset--":        "--초기화--",
			"--sync--":         "--sync--",
			"--targetable--":   "--타겟 가능--",
			"--untargetable--": "--타겟 불가능--",
			"Enrage":           "전멸기",
			"Start":            "시작",
		},
	},
}
