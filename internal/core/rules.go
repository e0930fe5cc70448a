package core

// KeywordRule maps a lowercase phrase to its target category. Matching is
// case-insensitive substring containment over the transaction description,
// and rules are evaluated in slice order: when several phrases match, the
// first listed wins, so ordering here is part of the contract.
type KeywordRule struct {
	Phrase   string
	Category Category
}

// itemRules carries specific merchant and product signals. It is scanned
// before categoryRules so that a brand term (a named coffee chain, a cinema
// franchise) overrides any broader phrase that also happens to match.
var itemRules = []KeywordRule{
	// 식비
	{"우유", CategoryFood},
	{"빵", CategoryFood},
	{"치킨", CategoryFood},
	{"과자", CategoryFood},
	{"라면", CategoryFood},
	{"커피", CategoryFood},
	{"점심", CategoryFood},
	{"저녁", CategoryFood},
	{"피자", CategoryFood},
	{"햄버거", CategoryFood},
	{"스타벅스", CategoryFood},
	{"배달의민족", CategoryFood},
	{"요기요", CategoryFood},
	{"마켓컬리", CategoryFood},
	{"milk", CategoryFood},
	{"bread", CategoryFood},
	{"chicken", CategoryFood},
	{"snacks", CategoryFood},
	{"coffee", CategoryFood},
	{"lunch", CategoryFood},
	{"dinner", CategoryFood},
	{"pizza", CategoryFood},
	// 주거
	{"월세", CategoryHousing},
	{"관리비", CategoryHousing},
	{"전기세", CategoryHousing},
	{"수도세", CategoryHousing},
	{"가스비", CategoryHousing},
	{"인터넷", CategoryHousing},
	{"통신비", CategoryHousing},
	{"kt", CategoryHousing},
	{"skt", CategoryHousing},
	{"lgu+", CategoryHousing},
	{"rent", CategoryHousing},
	{"electric bill", CategoryHousing},
	{"water bill", CategoryHousing},
	{"gas bill", CategoryHousing},
	{"internet bill", CategoryHousing},
	// 교통비
	{"택시", CategoryTransport},
	{"버스", CategoryTransport},
	{"지하철", CategoryTransport},
	{"주차", CategoryTransport},
	{"기름", CategoryTransport},
	{"카카오택시", CategoryTransport},
	{"티머니", CategoryTransport},
	{"하이패스", CategoryTransport},
	{"srt", CategoryTransport},
	{"taxi", CategoryTransport},
	{"bus", CategoryTransport},
	{"subway", CategoryTransport},
	{"parking", CategoryTransport},
	{"gas", CategoryTransport},
	// 쇼핑
	{"옷", CategoryShopping},
	{"신발", CategoryShopping},
	{"가방", CategoryShopping},
	{"화장품", CategoryShopping},
	{"핸드폰", CategoryShopping},
	{"올리브영", CategoryShopping},
	{"무신사", CategoryShopping},
	{"쿠팡", CategoryShopping},
	{"네이버쇼핑", CategoryShopping},
	{"이마트", CategoryShopping},
	{"홈플러스", CategoryShopping},
	{"다이소", CategoryShopping},
	{"cu", CategoryShopping},
	{"gs25", CategoryShopping},
	{"세븐일레븐", CategoryShopping},
	{"clothes", CategoryShopping},
	{"shoes", CategoryShopping},
	{"cosmetics", CategoryShopping},
	{"coupang", CategoryShopping},
	{"book", CategoryShopping},
	// 문화/여가
	{"영화", CategoryCulture},
	{"헬스", CategoryCulture},
	{"노래방", CategoryCulture},
	{"pc방", CategoryCulture},
	{"cgv", CategoryCulture},
	{"메가박스", CategoryCulture},
	{"넷플릭스", CategoryCulture},
	{"유튜브", CategoryCulture},
	{"멜론", CategoryCulture},
	{"교보문고", CategoryCulture},
	{"movie", CategoryCulture},
	{"gym", CategoryCulture},
	{"netflix", CategoryCulture},
	{"youtube", CategoryCulture},
	// 생활비
	{"병원", CategoryLiving},
	{"약", CategoryLiving},
	{"샴푸", CategoryLiving},
	{"미용실", CategoryLiving},
	{"hospital", CategoryLiving},
	{"pharmacy", CategoryLiving},
	{"shampoo", CategoryLiving},
}

// categoryRules carries broader vocabulary, scanned only when no item rule
// matched.
var categoryRules = []KeywordRule{
	// 식비
	{"음식", CategoryFood},
	{"식사", CategoryFood},
	{"식비", CategoryFood},
	{"식료품", CategoryFood},
	{"카페", CategoryFood},
	{"배달", CategoryFood},
	{"디저트", CategoryFood},
	{"간식", CategoryFood},
	{"groceries", CategoryFood},
	{"food", CategoryFood},
	{"cafe", CategoryFood},
	{"restaurant", CategoryFood},
	// 주거
	{"주거", CategoryHousing},
	{"월세", CategoryHousing},
	{"관리비", CategoryHousing},
	{"전기", CategoryHousing},
	{"수도", CategoryHousing},
	{"가스", CategoryHousing},
	{"인터넷", CategoryHousing},
	{"통신", CategoryHousing},
	{"housing", CategoryHousing},
	{"utilities", CategoryHousing},
	{"rent", CategoryHousing},
	// 교통비
	{"교통", CategoryTransport},
	{"교통비", CategoryTransport},
	{"택시", CategoryTransport},
	{"버스", CategoryTransport},
	{"지하철", CategoryTransport},
	{"주차", CategoryTransport},
	{"기름", CategoryTransport},
	{"항공", CategoryTransport},
	{"ktx", CategoryTransport},
	{"transportation", CategoryTransport},
	{"travel", CategoryTransport},
	{"taxi", CategoryTransport},
	{"bus", CategoryTransport},
	{"subway", CategoryTransport},
	// 쇼핑
	{"쇼핑", CategoryShopping},
	{"의류", CategoryShopping},
	{"화장품", CategoryShopping},
	{"전자제품", CategoryShopping},
	{"선물", CategoryShopping},
	{"가구", CategoryShopping},
	{"인테리어", CategoryShopping},
	{"편의점", CategoryShopping},
	{"마트", CategoryShopping},
	{"shopping", CategoryShopping},
	{"gifts", CategoryShopping},
	{"clothes", CategoryShopping},
	{"cosmetics", CategoryShopping},
	// 문화/여가
	{"문화", CategoryCulture},
	{"여가", CategoryCulture},
	{"운동", CategoryCulture},
	{"헬스", CategoryCulture},
	{"취미", CategoryCulture},
	{"영화", CategoryCulture},
	{"공연", CategoryCulture},
	{"여행", CategoryCulture},
	{"구독", CategoryCulture},
	{"fitness", CategoryCulture},
	{"hobbies", CategoryCulture},
	{"culture", CategoryCulture},
	{"leisure", CategoryCulture},
	// 생활비
	{"생활", CategoryLiving},
	{"의료", CategoryLiving},
	{"병원", CategoryLiving},
	{"약국", CategoryLiving},
	{"생필품", CategoryLiving},
	{"미용", CategoryLiving},
	{"경조사", CategoryLiving},
	{"medical", CategoryLiving},
	{"dental", CategoryLiving},
	{"personal hygiene", CategoryLiving},
}

// ItemRules returns the high-priority merchant/product rule set in its
// defined order.
func ItemRules() []KeywordRule {
	out := make([]KeywordRule, len(itemRules))
	copy(out, itemRules)
	return out
}

// CategoryRules returns the general vocabulary rule set in its defined order.
func CategoryRules() []KeywordRule {
	out := make([]KeywordRule, len(categoryRules))
	copy(out, categoryRules)
	return out
}
