package vector

// Document is one entry of the bundled literature corpus.
type Document struct {
	ID         string
	Title      string
	Content    string
	Source     string
	SourceType string
	PMID       string
	DOI        string
	URL        string
	Year       string
	Keywords   []string
	Confidence float64
}

// seedDocuments is the built-in medical literature corpus used when no
// external passage index is configured.
func seedDocuments() []Document {
	return []Document{
		{
			ID:         "doc_001",
			Title:      "偏头痛的诊断与治疗进展",
			Content:    "偏头痛是一种常见的原发性头痛，全球患病率约为12%。典型表现为反复发作的中重度搏动性头痛，常伴有恶心、呕吐、畏光和畏声。发作持续4-72小时。诊断主要依据临床表现，需排除继发性头痛。",
			Source:     "中华神经科杂志",
			SourceType: "pubmed",
			PMID:       "34567890",
			Year:       "2023",
			Keywords:   []string{"偏头痛", "头痛", "诊断", "治疗"},
			Confidence: 0.95,
		},
		{
			ID:         "doc_002",
			Title:      "紧张性头痛的流行病学与管理",
			Content:    "紧张性头痛是最常见的头痛类型，终生患病率可达78%。表现为双侧压迫性或紧箍样头痛，程度轻至中度，不因日常活动加重。管理包括生活方式调整、放松训练和必要时的药物治疗。",
			Source:     "Headache: The Journal of Head and Face Pain",
			SourceType: "pubmed",
			PMID:       "34567891",
			Year:       "2023",
			Keywords:   []string{"紧张性头痛", "头痛", "流行病学"},
			Confidence: 0.92,
		},
		{
			ID:         "doc_003",
			Title:      "头痛的危险信号与紧急就医指征",
			Content:    "以下情况需立即就医：1)雷击样头痛（数秒内达到高峰的剧烈头痛）；2)伴发热和颈部僵硬；3)伴意识改变或神经功能缺损；4)头痛进行性加重；5)50岁以后新发头痛；6)伴视力改变或眼痛。这些可能提示蛛网膜下腔出血、脑膜炎、颅内占位等严重疾病。",
			Source:     "NICE Clinical Guidelines",
			SourceType: "guideline",
			URL:        "https://www.nice.org.uk/guidance/cg150",
			Year:       "2023",
			Keywords:   []string{"头痛", "危险信号", "急症", "就医"},
			Confidence: 0.98,
		},
		{
			ID:         "doc_004",
			Title:      "非甾体抗炎药治疗头痛的循证评价",
			Content:    "布洛芬(400-600mg)和萘普生(500-550mg)对偏头痛急性发作有效。对乙酰氨基酚(1000mg)对轻至中度头痛有效。曲普坦类药物是中重度偏头痛的一线治疗。应注意药物过度使用性头痛的风险，每月使用止痛药不宜超过10天。",
			Source:     "Cochrane Database of Systematic Reviews",
			SourceType: "pubmed",
			PMID:       "34567892",
			DOI:        "10.1002/14651858.CD009108",
			Year:       "2022",
			Keywords:   []string{"头痛", "治疗", "NSAIDs", "布洛芬"},
			Confidence: 0.94,
		},
		{
			ID:         "doc_005",
			Title:      "成人发热的评估与处理",
			Content:    "发热定义为核心体温≥38°C。常见病因包括感染(最常见)、自身免疫疾病、恶性肿瘤等。评估应包括详细病史、体格检查和必要的实验室检查。对症治疗包括物理降温和退热药物。",
			Source:     "中华内科杂志",
			SourceType: "pubmed",
			PMID:       "34567893",
			Year:       "2023",
			Keywords:   []string{"发热", "感染", "评估"},
			Confidence: 0.91,
		},
		{
			ID:         "doc_006",
			Title:      "流感诊疗方案",
			Content:    "流感是由流感病毒引起的急性呼吸道传染病。主要症状包括发热(常高热)、头痛、肌肉酸痛、乏力、咳嗽等。抗病毒治疗（奥司他韦、扎那米韦）应在发病48小时内开始，以获得最佳疗效。高危人群应优先接种流感疫苗。",
			Source:     "国家卫生健康委员会",
			SourceType: "guideline",
			URL:        "http://www.nhc.gov.cn/",
			Year:       "2023",
			Keywords:   []string{"流感", "抗病毒", "疫苗"},
			Confidence: 0.97,
		},
		{
			ID:         "doc_007",
			Title:      "2型糖尿病综合管理指南",
			Content:    "2型糖尿病管理目标：HbA1c<7%（个体化调整）。一线用药为二甲双胍。生活方式干预是基础，包括饮食控制、规律运动、戒烟限酒。定期监测并发症：眼底、肾功能、足部检查。",
			Source:     "中华糖尿病杂志",
			SourceType: "guideline",
			Year:       "2024",
			Keywords:   []string{"糖尿病", "二甲双胍", "管理"},
			Confidence: 0.96,
		},
		{
			ID:         "doc_008",
			Title:      "高血压诊断与治疗指南要点",
			Content:    "高血压诊断标准：非同日3次血压≥140/90mmHg。治疗目标：<140/90mmHg，高危患者<130/80mmHg。一线药物包括ACEI/ARB、CCB、利尿剂、β受体阻滞剂。生活方式改变：限盐(<6g/d)、减重、戒烟、限酒、运动。",
			Source:     "中国高血压防治指南",
			SourceType: "guideline",
			Year:       "2023",
			Keywords:   []string{"高血压", "诊断", "治疗"},
			Confidence: 0.96,
		},
		{
			ID:         "doc_009",
			Title:      "细菌性脑膜炎的早期识别",
			Content:    "细菌性脑膜炎三联征：发热、头痛、颈强直。其他表现包括意识障碍、畏光、皮疹（脑膜炎球菌）。Kernig征和Brudzinski征阳性有诊断意义。这是医学急症，需立即就医进行腰穿和经验性抗生素治疗。",
			Source:     "Lancet Neurology",
			SourceType: "pubmed",
			PMID:       "34567894",
			Year:       "2023",
			Keywords:   []string{"脑膜炎", "急症", "头痛", "发热"},
			Confidence: 0.97,
		},
		{
			ID:         "doc_010",
			Title:      "布洛芬药物信息",
			Content:    "布洛芬（Ibuprofen）是非甾体抗炎药(NSAID)。适应症：解热镇痛、抗炎。用法：成人200-400mg/次，每4-6小时一次，每日最大1200mg。禁忌：活动性消化道溃疡、严重心衰、对NSAIDs过敏。注意：胃肠道不良反应、肾功能影响。",
			Source:     "DrugBank",
			SourceType: "drugbank",
			URL:        "https://go.drugbank.com/drugs/DB01050",
			Year:       "2024",
			Keywords:   []string{"布洛芬", "NSAIDs", "止痛"},
			Confidence: 0.99,
		},
	}
}
