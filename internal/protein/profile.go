package protein

// Profile names shipped with the binary.
const (
	ProfileNutrition = "nutrition"
	ProfileBasic     = "basic"
)

// Profile is the configuration of one responder variant: trigger sets,
// image lists, reply texts and the optional weight formula.
// Placeholders in reply templates are written as {name}.
type Profile struct {
	Name       string     `yaml:"name" validate:"required"`
	Comparison ImageRule  `yaml:"comparison"`
	Inbody     ImageRule  `yaml:"inbody"`
	Intro      ImageRule  `yaml:"intro"`
	Forms      []FormLink `yaml:"forms" validate:"dive"`
	IntakeLog  IntakeLog  `yaml:"intake_log"`
	Greeting   TextRule   `yaml:"greeting"`

	// Formula enables the numeric fallback. When nil, unmatched text is
	// answered with the Echo template ({text}).
	Formula *Formula `yaml:"formula"`
	Echo    string   `yaml:"echo" validate:"required_without=Formula"`
}

// ImageRule replies with a fixed, ordered list of images.
// A rule without triggers never matches.
type ImageRule struct {
	Triggers []string `yaml:"triggers" validate:"dive,required"`
	Images   []string `yaml:"images" validate:"required_with=Triggers,max=5,dive,url,line_image_url"`
}

// FormLink is an external form announced when any of its triggers match.
type FormLink struct {
	Triggers []string `yaml:"triggers" validate:"required,min=1,dive,required"`
	Title    string   `yaml:"title" validate:"required"`
	URL      string   `yaml:"url" validate:"required,url"`
}

// TextRule replies with a fixed text.
type TextRule struct {
	Triggers []string `yaml:"triggers" validate:"dive,required"`
	Reply    string   `yaml:"reply" validate:"required_with=Triggers"`
}

// IntakeLog acknowledges free-text intake reports matched by Pattern.
// Reply may cite the first number in the text as {number}.
type IntakeLog struct {
	Pattern string `yaml:"pattern"`
	Reply   string `yaml:"reply" validate:"required_with=Pattern"`
}

// Formula converts a body weight into a daily portion target:
// floor(weight * GramsPerKg / GramsPerPortion).
//
// Numbers at or above WeightThreshold are read as kilograms, smaller ones
// as a portion count the user already ate. The threshold is a magnitude
// heuristic only; a 35 kg user is treated as reporting 35 portions.
type Formula struct {
	GramsPerKg      float64  `yaml:"grams_per_kg" validate:"gt=0"`
	GramsPerPortion float64  `yaml:"grams_per_portion" validate:"gt=0"`
	WeightThreshold float64  `yaml:"weight_threshold" validate:"gt=0"`
	Units           []string `yaml:"units" validate:"required,min=1,dive,required"`

	Recommendation string `yaml:"recommendation" validate:"required"` // {weight} {portions}
	PortionLogged  string `yaml:"portion_logged" validate:"required"` // {portions}
	IntakeLogged   string `yaml:"intake_logged" validate:"required"`
	Instructions   string `yaml:"instructions" validate:"required"`
}

var comparisonImages = []string{
	"https://i.imgur.com/9f3pO0p.jpg",
	"https://i.imgur.com/4CJ8KfF.jpg",
}

var inbodyImages = []string{
	"https://i.imgur.com/a1.jpg",
	"https://i.imgur.com/a2.jpg",
	"https://i.imgur.com/a3.jpg",
	"https://i.imgur.com/a4.jpg",
	"https://i.imgur.com/a5.jpg",
}

// NutritionProfile is the full variant with the weight-to-portion formula.
func NutritionProfile() Profile {
	return Profile{
		Name: ProfileNutrition,
		Comparison: ImageRule{
			Triggers: []string{"蛋白質對照圖", "蛋白質對照"},
			Images:   comparisonImages,
		},
		Inbody: ImageRule{
			Triggers: []string{"Inbody", "身理指數介紹"},
			Images:   inbodyImages,
		},
		Intro: ImageRule{
			Triggers: []string{"介紹"},
			Images:   inbodyImages,
		},
		Forms: []FormLink{
			{
				Triggers: []string{"量表", "衰弱疲勞評估", "問卷"},
				Title:    "📋 衰弱評估量表",
				URL:      "https://example.com/form",
			},
			{
				Triggers: []string{"每日蛋白質紀錄", "問卷"},
				Title:    "📝 每日蛋白質紀錄表單",
				URL:      "https://example.com/record",
			},
		},
		IntakeLog: IntakeLog{
			Pattern: `(?s)\d.*蛋白質`,
			Reply:   "✅ 已記錄您的蛋白質攝取！",
		},
		Greeting: TextRule{
			Triggers: []string{"你好", "體重"},
			Reply:    "您好！請輸入您的體重（公斤），我將幫您計算每日蛋白質建議攝取量。\n\n建議每公斤體重攝取 1.2–2.0 克蛋白質。",
		},
		Formula: &Formula{
			GramsPerKg:      1.2,
			GramsPerPortion: 7,
			WeightThreshold: 40,
			Units: []string{
				"肉", "蛋", "豆", "豆漿", "喝", "吃", "湯", "飲",
				"cc", "ml", "罐", "瓶", "片", "份", "包", "顆", "匙", "條", "球",
			},
			Recommendation: "依照您的體重 {weight} 公斤，每日建議攝取 {portions} 份蛋白質。\n（以每公斤 1.2 克、每份約 7 克蛋白質計算）",
			PortionLogged:  "✅ 已記錄今日攝取 {portions} 份蛋白質！",
			IntakeLogged:   "✅ 已記錄您的蛋白質攝取！",
			Instructions:   "請依下列格式輸入：\n・體重（公斤），例如：70\n・今日已攝取份數，例如：5\n・飲食內容，例如：喝了300cc豆漿、吃了2份肉",
		},
	}
}

// BasicProfile is the minimal variant: no formula, unmatched text is echoed.
func BasicProfile() Profile {
	return Profile{
		Name: ProfileBasic,
		Comparison: ImageRule{
			Triggers: []string{"蛋白質對照圖", "蛋白質對照"},
			Images:   comparisonImages,
		},
		Inbody: ImageRule{
			Triggers: []string{"Inbody", "身理指數介紹"},
			Images:   inbodyImages,
		},
		Intro: ImageRule{
			Triggers: []string{"介紹"},
			Images:   inbodyImages,
		},
		Forms: []FormLink{
			{
				Triggers: []string{"量表", "衰弱疲勞評估"},
				Title:    "這是您的衰弱評估量表連結：",
				URL:      "https://example.com/form",
			},
			{
				Triggers: []string{"每日蛋白質紀錄"},
				Title:    "每日蛋白質紀錄表單：",
				URL:      "https://example.com/record",
			},
		},
		IntakeLog: IntakeLog{
			Pattern: `(?s)\d.*(?:蛋白質|克|g)|(?:蛋白質|克|g).*\d`,
			Reply:   "已記錄：蛋白質攝取 {number} 克。",
		},
		Greeting: TextRule{
			Triggers: []string{"你好", "體重"},
			Reply:    "請輸入您的體重，我將幫您計算每日蛋白質建議攝取量。",
		},
		Echo: "收到您的訊息：「{text}」\n請輸入蛋白質攝取量、查看蛋白質對照圖或輸入『介紹』來獲得更多資訊。",
	}
}

// BuiltinProfile returns a shipped profile by name.
func BuiltinProfile(name string) (Profile, bool) {
	switch name {
	case ProfileNutrition, "":
		return NutritionProfile(), true
	case ProfileBasic:
		return BasicProfile(), true
	default:
		return Profile{}, false
	}
}
