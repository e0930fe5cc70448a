package core

import "fmt"

// Category is one of the fixed spending classification buckets. The set is
// closed: six substantive categories plus the Unknown sentinel for valid but
// unclassifiable transactions and the Invalid sentinel reserved for batches
// that were rejected as non-financial input.
type Category string

const (
	CategoryFood      Category = "식비"
	CategoryHousing   Category = "주거"
	CategoryTransport Category = "교통비"
	CategoryShopping  Category = "쇼핑"
	CategoryCulture   Category = "문화/여가"
	CategoryLiving    Category = "생활비"
	CategoryUnknown   Category = "알 수 없음"
	CategoryInvalid   Category = "생각없는 직진가"
)

// Categories lists every member of the enumeration, substantive first.
var Categories = []Category{
	CategoryFood,
	CategoryHousing,
	CategoryTransport,
	CategoryShopping,
	CategoryCulture,
	CategoryLiving,
	CategoryUnknown,
	CategoryInvalid,
}

// substantive is the set of categories an external hint may resolve to.
// The sentinels are deliberately excluded.
var substantive = map[Category]bool{
	CategoryFood:      true,
	CategoryHousing:   true,
	CategoryTransport: true,
	CategoryShopping:  true,
	CategoryCulture:   true,
	CategoryLiving:    true,
}

// Substantive reports whether c is one of the six real spending categories.
func (c Category) Substantive() bool {
	return substantive[c]
}

// Valid reports whether c is a member of the enumeration, sentinels included.
func (c Category) Valid() bool {
	_, ok := personas[c]
	return ok
}

// Persona is the display identity attached to a category: how the dominant
// category of an analysis is presented to the user.
type Persona struct {
	Name        string `json:"name"`
	IconPrompt  string `json:"iconPrompt"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Comment     string `json:"comment"`
}

var personas = map[Category]Persona{
	CategoryFood: {
		Name:        "미식가",
		IconPrompt:  "A fork and knife crossed",
		Color:       "#FFB800",
		Description: "맛있는 음식을 즐기는 데\n지출이 많으시네요",
		Comment:     "다양한 맛을 탐험하는 당신은 진정한 미식가입니다.",
	},
	CategoryShopping: {
		Name:        "쇼핑 러버",
		IconPrompt:  "A shopping bag with a small heart on it",
		Color:       "#FF6482",
		Description: "쇼핑을 통해 삶의 만족도를\n높이시는군요",
		Comment:     "새로운 것을 찾는 즐거움을 아는 당신, 멋져요!",
	},
	CategoryHousing: {
		Name:        "홈 메이커",
		IconPrompt:  "A simple, modern house icon",
		Color:       "#00C471",
		Description: "주거 관련 지출이 소비에서\n큰 비중을 차지하네요",
		Comment:     "편안한 공간을 만드는 데 투자하는 현명한 선택입니다.",
	},
	CategoryTransport: {
		Name:        "액티브 무버",
		IconPrompt:  "A modern bus or subway icon",
		Color:       "#3182F6",
		Description: "이동이 잦거나 교통 관련\n지출이 많은 편이시네요",
		Comment:     "세상을 누비는 활동적인 라이프스타일!",
	},
	CategoryCulture: {
		Name:        "라이프 엔조이어",
		IconPrompt:  "A movie ticket and a star",
		Color:       "#8B5CF6",
		Description: "다양한 문화 및 여가 활동에\n적극적으로 참여하시는군요",
		Comment:     "삶을 풍요롭게 만드는 멋진 취미생활을 하고 계세요.",
	},
	CategoryLiving: {
		Name:        "라이프 매니저",
		IconPrompt:  "A water droplet inside a leaf shape",
		Color:       "#14B8A6",
		Description: "필수적인 생활비 지출이\n상대적으로 높게 나타납니다",
		Comment:     "건강과 일상을 챙기는 책임감 있는 당신, 응원합니다.",
	},
	CategoryUnknown: {
		Name:        "미스터리 소비자",
		IconPrompt:  "A magnifying glass over a question mark",
		Color:       "#A0AEC0",
		Description: "분류하기 어려운 소비가\n많이 발견되었습니다",
		Comment:     "독특한 소비 패턴을 가진 흥미로운 당신이네요.",
	},
	CategoryInvalid: {
		Name:        "생각없는 직진가",
		IconPrompt:  "A cartoon rocket ship about to crash into a planet",
		Color:       "#F44336",
		Description: "잘못된 데이터를 포함하여\n분석을 요청하셨습니다",
		Comment:     "잘못된 데이터는 인식할 수 없어요. 정확한 분석을 위해 올바른 형식의 데이터를 업로드해주세요!",
	},
}

// MetadataFor returns the persona metadata attached to a category. Every
// member of the enumeration has exactly one metadata record; a miss means a
// category value was forged outside the enumeration, which is a programming
// error, so it panics rather than returning a zero value.
func MetadataFor(c Category) Persona {
	p, ok := personas[c]
	if !ok {
		panic(fmt.Sprintf("core: no persona metadata for category %q", c))
	}
	return p
}
