package model

// Label is the authenticity classification assigned to a listing.
type Label string

// Classification outcomes, one per branch of the heuristic cascade. The
// strings are part of the output contract and must not change.
const (
	LabelCompatible          Label = "compativel"
	LabelDeclaredNotOriginal Label = "nao_original_declarado"

	LabelPiratePriceBadSeller   Label = "pirata_provavel_preco_vendedor_ruim"
	LabelPirateQualityBadSeller Label = "pirata_provavel_nota_vendedor_ruim"
	LabelPirateCheapNeutral     Label = "pirata_provavel_preco_muito_baixo_vendedor_neutro"
	LabelPirateUnknownSuspect   Label = "pirata_provavel_orig_desconhecida_vendedor_suspeito_preco_baixo"

	LabelOriginal              Label = "original"
	LabelLikelyOriginalTrusted Label = "original_provavel_orig_desconhecida_vendedor_confiavel"

	LabelReviewClaimedSuspect      Label = "avaliar_manual_alegado_original_vendedor_suspeito"
	LabelReviewClaimedNeutralCheap Label = "avaliar_manual_alegado_original_vendedor_neutro_preco_baixo"
	LabelReviewClaimedNeutral      Label = "avaliar_manual_alegado_original_vendedor_neutro"
	LabelReviewCheapTrusted        Label = "avaliar_manual_original_preco_baixo_vendedor_confiavel"
	LabelReviewVeryCheapTrusted    Label = "avaliar_manual_original_preco_MUITO_baixo_vendedor_confiavel"
	LabelReviewUnknownTrustedCheap Label = "avaliar_manual_orig_desconhecida_vendedor_confiavel_preco_baixo"
	LabelReviewUnknownNeutral      Label = "avaliar_manual_orig_desconhecida_vendedor_neutro"
	LabelReviewUnknownSuspect      Label = "avaliar_manual_orig_desconhecida_vendedor_suspeito"
	LabelReviewUnclear             Label = "avaliar_manual_geral_sem_classificacao_clara"
)
